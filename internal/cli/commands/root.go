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
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"verfs/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// getVersionString returns the version string with build info
func getVersionString() string {
	buildDate := formatBuildDate(date)
	if strings.HasSuffix(version, "-dev") {
		// Dev build: include epoch and commit for troubleshooting
		return fmt.Sprintf("%s (%s, epoch: %s, commit: %s)", version, buildDate, date, commit)
	}
	// Prod build: version with date
	return fmt.Sprintf("%s (%s)", version, buildDate)
}

// formatBuildDate converts epoch timestamp to readable date
func formatBuildDate(epoch string) string {
	ts, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return epoch
	}
	return time.Unix(ts, 0).Format("2006-01-02")
}

var (
	flagStore    string
	flagAuthor   string
	flagConfig   string
	flagLogLevel string

	// cfg is the effective configuration, built in PersistentPreRunE from
	// the config file with flags layered on top.
	cfg *Config
)

var rootCmd = &cobra.Command{
	Use:   "verfs",
	Short: "Versioned file hierarchy in a single store file",
	Long: `verfs keeps a folder/file hierarchy with per-file version history inside
a single store file. Files are saved, checkpointed into frozen versions,
moved and removed; every checkpointed version stays readable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if flagStore != "" {
			cfg.Store = flagStore
		}
		if flagAuthor != "" {
			cfg.Author = flagAuthor
		}
		if flagLogLevel != "" {
			cfg.Logging = flagLogLevel
		}
		if cfg.BusyTimeout > 0 {
			storage.SetConfigBusyTimeout(cfg.BusyTimeout)
		}

		return applyLogLevel(cfg.Logging)
	},
}

// applyLogLevel configures logrus from a config/flag level name.
// "none" silences everything below panic.
func applyLogLevel(level string) error {
	level = strings.ToLower(level)
	switch level {
	case "", "warn":
		log.SetLevel(log.WarnLevel)
	case "none":
		log.SetLevel(log.PanicLevel)
	default:
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q", level)
		}
		log.SetLevel(parsed)
	}
	return nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("verfs version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&flagStore, "store", "s", "", "store file path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagAuthor, "author", "a", "", "author recorded on new versions")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path (default .verfs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: none, error, warn, info, debug")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
