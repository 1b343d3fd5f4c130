package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err, "explicitly named config must exist")
		assert.Nil(t, cfg)
	})

	t.Run("parses values and fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := []byte("store: project.verfs\nlogging: debug\nbusy-timeout: 5000\n")
		require.NoError(t, os.WriteFile(path, content, 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "project.verfs", cfg.Store)
		assert.Equal(t, "debug", cfg.Logging)
		assert.Equal(t, 5000, cfg.BusyTimeout)
		assert.Equal(t, DefaultAuthor, cfg.Author)
		assert.False(t, cfg.MangleEnabled())
	})

	t.Run("mangle flag survives parsing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mangle: true\n"), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.True(t, cfg.MangleEnabled())
		assert.Equal(t, DefaultStoreFile, cfg.Store)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: [unclosed\n"), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestMangledNames(t *testing.T) {
	t.Parallel()
	const id = "AbCdEfGhIjKlMnOpQrStUv"

	tests := []struct {
		name      string
		wantClean string
		wantFid   string
	}{
		{"report_" + id + ".txt", "report.txt", id},
		{"report_" + id, "report", id},
		{"multi_word_name_" + id + ".tar.gz", "multi_word_name.tar", ""},
		{"plain.txt", "plain.txt", ""},
		{"short_suffix.txt", "short_suffix.txt", ""},
		{"_" + id + ".txt", "_" + id + ".txt", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clean, fid := parseMangledName(tt.name)
			if tt.wantFid == "" {
				assert.Empty(t, fid)
				return
			}
			assert.Equal(t, tt.wantClean, clean)
			assert.Equal(t, tt.wantFid, fid)
		})
	}

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		mangled := mangleName("notes.md", id)
		assert.Equal(t, "notes_"+id+".md", mangled)

		clean, fid := parseMangledName(mangled)
		assert.Equal(t, "notes.md", clean)
		assert.Equal(t, id, fid)
	})
}
