// Copyright 2025 VerFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dst>",
	Short: "Move or rename a file",
	Long: `Move a file to a new path, creating destination folders as needed.

The source is a path (starting with /) or a file id. The file keeps its
id and its whole version history.

Examples:
  verfs mv /docs/draft.txt /docs/final.txt
  verfs mv AbCdEfGhIjKlMnOpQrStUv /archive/kept.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runMv,
}

var mvdirCmd = &cobra.Command{
	Use:   "mvdir <src> <dst>",
	Short: "Move or rename a folder",
	Long: `Move a folder and everything beneath it to a new path. Sub-folders and
files stay linked by id; only the folder's location changes.

Examples:
  verfs mvdir /projects/old-name /projects/new-name`,
	Args: cobra.ExactArgs(2),
	RunE: runMvdir,
}

func init() {
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(mvdirCmd)
}

func runMv(cmd *cobra.Command, args []string) error {
	fid, path := fileRef(args[0])
	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		if err := s.MoveFile(ctx, fid, path, args[1]); err != nil {
			return err
		}
		fmt.Printf("Moved %s -> %s\n", args[0], args[1])
		return nil
	})
}

func runMvdir(cmd *cobra.Command, args []string) error {
	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		if err := s.MoveFolder(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Moved %s -> %s\n", args[0], args[1])
		return nil
	})
}
