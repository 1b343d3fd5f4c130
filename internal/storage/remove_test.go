package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verfs/internal/common"
)

func TestRemoveFile(t *testing.T) {
	t.Parallel()

	t.Run("drops all versions and chunks", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()
		ctx := context.Background()

		fid, _, err := s.SaveFile(ctx, "", "/doomed.txt", "alice", []byte("v1"))
		require.NoError(t, err)
		_, err = s.Checkpoint(ctx, fid, "", "cp", "alice", time.Now())
		require.NoError(t, err)
		_, _, err = s.SaveFile(ctx, fid, "", "alice", []byte("v2"))
		require.NoError(t, err)

		err = s.RemoveFile(ctx, fid, "/doomed.txt")
		require.NoError(t, err)

		_, err = s.LocateFile(ctx, fid)
		assert.ErrorIs(t, err, common.ErrNotFound)

		revs, err := s.History(ctx, fid)
		require.NoError(t, err)
		assert.Empty(t, revs, "version rows must be gone")

		count, err := countChunks(ctx, s.DB())
		require.NoError(t, err)
		assert.Zero(t, count, "chunk rows must be gone")
	})

	t.Run("missing file with path is an error", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()

		err := s.RemoveFile(context.Background(), "", "/no/such.txt")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("missing id without path is a no-op", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()

		err := s.RemoveFile(context.Background(), "unknown-id", "")
		assert.NoError(t, err)
	})
}

func TestRemoveFolder(t *testing.T) {
	t.Parallel()

	t.Run("recursive delete", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()
		ctx := context.Background()

		_, _, err := s.SaveFile(ctx, "", "/tree/a.txt", "alice", []byte("a"))
		require.NoError(t, err)
		_, _, err = s.SaveFile(ctx, "", "/tree/sub/b.txt", "alice", []byte("b"))
		require.NoError(t, err)
		_, _, err = s.SaveFile(ctx, "", "/tree/sub/deeper/c.txt", "alice", []byte("c"))
		require.NoError(t, err)
		keep, _, err := s.SaveFile(ctx, "", "/outside/d.txt", "alice", []byte("d"))
		require.NoError(t, err)

		err = s.RemoveFolder(ctx, "/tree")
		require.NoError(t, err)

		_, err = s.LocateFolder(ctx, "/tree")
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = s.LocateFileByPath(ctx, "/tree/sub/b.txt")
		assert.ErrorIs(t, err, common.ErrNotFound)

		// Unrelated files survive.
		data, err := s.ReadFile(ctx, keep, "")
		require.NoError(t, err)
		assert.Equal(t, []byte("d"), data)

		list, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, list.Files, 1)
	})

	t.Run("empty folder", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()
		ctx := context.Background()

		// Materialize a folder chain by saving and removing a file.
		fid, _, err := s.SaveFile(ctx, "", "/hollow/inner/x.txt", "alice", []byte("x"))
		require.NoError(t, err)
		require.NoError(t, s.RemoveFile(ctx, fid, ""))

		err = s.RemoveFolder(ctx, "/hollow")
		require.NoError(t, err)
		_, err = s.LocateFolder(ctx, "/hollow/inner")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("cannot remove the root", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()

		err := s.RemoveFolder(context.Background(), "/")
		assert.ErrorIs(t, err, common.ErrInvalidPath)
	})

	t.Run("missing folder", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()

		err := s.RemoveFolder(context.Background(), "/nowhere")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
