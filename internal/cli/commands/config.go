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

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAuthor is recorded on versions when neither the config file
	// nor --author names one.
	DefaultAuthor = "sys$system"

	// DefaultStoreFile is the store path used when nothing else is configured.
	DefaultStoreFile = "data.verfs"

	// ConfigDirName is the per-project config directory, like ".git".
	ConfigDirName = ".verfs"
)

// Config is the per-project configuration from {project_dir}/.verfs/config.yaml.
type Config struct {
	Store       string `yaml:"store"`        // default: "data.verfs"
	Author      string `yaml:"author"`       // default: "sys$system"
	Logging     string `yaml:"logging"`      // logging level: none, error, warn, info, debug
	Mangle      *bool  `yaml:"mangle"`       // default: false (pointer to detect missing)
	BusyTimeout int    `yaml:"busy-timeout"` // SQLite busy_timeout in ms, 0 = library default
}

// ApplyDefaults fills zero-value fields with their defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.Store == "" {
		cfg.Store = DefaultStoreFile
	}
	if cfg.Author == "" {
		cfg.Author = DefaultAuthor
	}
	if cfg.Mangle == nil {
		f := false
		cfg.Mangle = &f
	}
}

// MangleEnabled returns whether filename mangling is enabled (defaults to false).
func (cfg *Config) MangleEnabled() bool {
	if cfg.Mangle == nil {
		return false
	}
	return *cfg.Mangle
}

// defaultConfigPath returns the conventional config location relative to
// the working directory.
func defaultConfigPath() string {
	return filepath.Join(ConfigDirName, "config.yaml")
}

// LoadConfig loads the config file at path, or the conventional
// .verfs/config.yaml when path is empty. A missing file is not an error:
// defaults are returned. An explicitly named file must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
