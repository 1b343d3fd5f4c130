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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history <path>...",
	Short: "Show the version history of files",
	Long: `Print every version of each named file, oldest first. The mutable
current version, if any, is marked with *.

Each argument is a path (starting with /) or a file id.

Examples:
  verfs history /docs/readme.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withStore(false, func(ctx context.Context, s *storage.Store) error {
		for _, arg := range args {
			fid, path := fileRef(arg)
			if fid == "" {
				file, err := s.LocateFileByPath(ctx, path)
				if err != nil {
					return fmt.Errorf("history %s: %w", arg, err)
				}
				fid = file.ID
			}

			revs, err := s.History(ctx, fid)
			if err != nil {
				return err
			}

			fmt.Printf("%s:\n", arg)
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  VERSION\tCREATED\tAUTHOR\tMESSAGE")
			for _, r := range revs {
				mark := ""
				if !r.Frozen {
					mark = " *"
				}
				fmt.Fprintf(w, "  %s%s\t%s\t%s\t%s\n",
					r.VersionID, mark, r.Stamp.Format("2006-01-02 15:04:05"), r.Author, r.Message)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		return nil
	})
}
