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
	"time"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var checkpointMessage string

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint <path>...",
	Short: "Freeze the current version of files",
	Long: `Freeze the current version of each named file. A frozen version is
immutable: a later save forks a new version instead of rewriting it.

Checkpointing a file that has not changed since its last checkpoint
records a new frozen version sharing the stored content.

Each argument is a path (starting with /) or a file id. The new version
id is printed per file.

Examples:
  verfs checkpoint /docs/readme.txt -m "first release"
  verfs checkpoint /a.txt /b.txt -m "nightly" -a backup`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckpoint,
}

func init() {
	checkpointCmd.Flags().StringVarP(&checkpointMessage, "message", "m", "", "message recorded on the frozen version")
	rootCmd.AddCommand(checkpointCmd)
}

func runCheckpoint(cmd *cobra.Command, args []string) error {
	message := checkpointMessage
	if message == "" {
		message = storage.DefaultSaveMessage
	}

	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		for _, arg := range args {
			fid, path := fileRef(arg)
			vid, err := s.Checkpoint(ctx, fid, path, message, cfg.Author, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", vid, arg)
		}
		return nil
	})
}
