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
	"path/filepath"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var exportMangle bool

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export the store into a directory tree",
	Long: `Write the current version of every file in the store to the local
filesystem, recreating the folder hierarchy under dir (default ".").

With --mangle, file ids are embedded into the exported filenames
(name_<id>.ext) so a later 'import --mangle' preserves identities.

Examples:
  verfs export ./out
  verfs export ./backup --mangle`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportMangle, "mangle", false, "embed file ids in exported filenames")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	destDir := "."
	if len(args) > 0 {
		destDir = args[0]
	}
	mangle := exportMangle || cfg.MangleEnabled()

	return withStore(false, func(ctx context.Context, s *storage.Store) error {
		list, err := s.ListAll(ctx)
		if err != nil {
			return err
		}

		exported := 0
		for fid, file := range list.Files {
			p := list.BuildPath(file)
			name := p.Tail()
			if mangle {
				name = mangleName(name, fid)
			}
			local := filepath.Join(destDir, filepath.FromSlash(p.Truncate(1).String()), name)

			data, err := s.ReadFile(ctx, fid, "")
			if err != nil {
				return fmt.Errorf("export %s: %w", p, err)
			}
			if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(local, data, 0644); err != nil {
				return err
			}
			exported++
		}
		fmt.Printf("Exported %d files to %s\n", exported, destDir)
		return nil
	})
}
