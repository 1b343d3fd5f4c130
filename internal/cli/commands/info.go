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
	"sort"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store contents and row counts",
	Long: `Print the store's file listing with version state, followed by row
counts (folders, files, versions, chunks).

Examples:
  verfs info
  verfs info -s ~/data/project.verfs`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	return withStore(false, func(ctx context.Context, s *storage.Store) error {
		list, err := s.ListAll(ctx)
		if err != nil {
			return err
		}

		paths := make([]string, 0, len(list.Files))
		byPath := make(map[string]*storage.File, len(list.Files))
		for _, file := range list.Files {
			p := "/" + list.BuildPath(file).String()
			paths = append(paths, p)
			byPath[p] = file
		}
		sort.Strings(paths)

		fmt.Printf("Store: %s\n", s.Path())
		for _, p := range paths {
			file := byPath[p]
			state := "frozen"
			if !file.Frozen {
				state = "mutable"
			}
			fmt.Printf("  %s  %s  %s\n", file.ID, state, p)
		}

		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("\n%d folders, %d files, %d versions, %d chunks\n",
			stats.Folders, stats.Files, stats.Versions, stats.Chunks)
		return nil
	})
}
