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

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Remove files",
	Long: `Remove files from the store, including every checkpointed version.

Each argument is a path (starting with /) or a file id.

Examples:
  verfs rm /docs/obsolete.txt
  verfs rm /a.txt /b.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRm,
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>...",
	Short: "Remove folder trees",
	Long: `Remove folders and everything beneath them: sub-folders, files and all
their versions.

Examples:
  verfs rmdir /scratch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRmdir,
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(rmdirCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		for _, arg := range args {
			fid, path := fileRef(arg)
			if path == "" {
				// Resolve ids up front so unknown ids report an error
				// instead of silently deleting nothing.
				file, err := s.LocateFile(ctx, fid)
				if err != nil {
					return fmt.Errorf("remove %s: %w", arg, err)
				}
				fid = file.ID
			}
			if err := s.RemoveFile(ctx, fid, path); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", arg)
		}
		return nil
	})
}

func runRmdir(cmd *cobra.Command, args []string) error {
	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		for _, arg := range args {
			if err := s.RemoveFolder(ctx, arg); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", arg)
		}
		return nil
	})
}
