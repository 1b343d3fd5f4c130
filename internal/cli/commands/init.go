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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"verfs/internal/artifacts"
	"verfs/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [store-path]",
	Short: "Create a new store",
	Long: `Create a new store file with an empty hierarchy.

The store path comes from the argument, the --store flag, or the config
file, in that order. A .verfs directory with a default config.yaml is
created next to the current directory, similar to 'git init'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	storePath := cfg.Store
	if len(args) > 0 {
		storePath = args[0]
	}

	s, err := storage.Create(storePath)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	if err := s.Close(); err != nil {
		return err
	}
	fmt.Printf("Initialized empty verfs store in %s\n", storePath)

	// Write the default project config unless one is already there.
	configPath := defaultConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("  %s already exists (not modified)\n", configPath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", ConfigDirName, err)
	}
	if err := os.WriteFile(configPath, artifacts.ProjectConfig, 0644); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}
	fmt.Printf("  created %s\n", configPath)
	return nil
}
