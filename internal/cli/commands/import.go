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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var importMangle bool

var importCmd = &cobra.Command{
	Use:   "import <dir> [dest-prefix]",
	Short: "Import a directory tree into the store",
	Long: `Recursively import a local directory into the store.

Every regular file under <dir> is saved at the matching path inside the
store, under dest-prefix if given. Dotfiles and dot-directories are
skipped. With --mangle, filenames of the form name_<id>.ext are imported
as name.ext under the embedded file id, so a previous mangled export
round-trips with identities intact.

Examples:
  verfs import ./docs
  verfs import ./docs /archive/docs
  verfs import ./backup --mangle`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importMangle, "mangle", false, "decode file ids embedded in filenames")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	srcDir := args[0]
	prefix := ""
	if len(args) > 1 {
		prefix = args[1]
	}
	mangle := importMangle || cfg.MangleEnabled()

	return withStore(true, func(ctx context.Context, s *storage.Store) error {
		imported := 0
		err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && p != srcDir {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(srcDir, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			fid := ""
			if mangle {
				dir, name := filepath.Split(rel)
				clean, id := parseMangledName(name)
				rel = dir + clean
				fid = id
			}

			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			dest := prefix + "/" + rel
			if _, _, err := s.SaveFile(ctx, fid, dest, cfg.Author, data); err != nil {
				return fmt.Errorf("import %s: %w", p, err)
			}
			imported++
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d files from %s\n", imported, srcDir)
		return nil
	})
}
