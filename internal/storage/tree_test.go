package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAll(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()

		list, err := s.ListAll(context.Background())
		require.NoError(t, err)
		require.NotNil(t, list.Root)
		assert.True(t, list.Root.IsRoot())
		assert.Empty(t, list.Root.Children)
		assert.Empty(t, list.Files)
	})

	t.Run("links folders and files", func(t *testing.T) {
		t.Parallel()
		s, cleanup := testStore(t)
		defer cleanup()
		ctx := context.Background()

		fidA, _, err := s.SaveFile(ctx, "", "/root.txt", "alice", []byte("a"))
		require.NoError(t, err)
		fidB, _, err := s.SaveFile(ctx, "", "/docs/guide.txt", "alice", []byte("b"))
		require.NoError(t, err)
		fidC, _, err := s.SaveFile(ctx, "", "/docs/api/ref.txt", "alice", []byte("c"))
		require.NoError(t, err)

		list, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, list.Files, 3)

		// Root holds one file and one child folder.
		require.NotNil(t, list.Root)
		require.Len(t, list.Root.Files, 1)
		assert.Equal(t, fidA, list.Root.Files[0].ID)
		require.Len(t, list.Root.Children, 1)

		docs := list.Root.Children[0]
		assert.Equal(t, "docs", docs.Name)
		require.Len(t, docs.Files, 1)
		assert.Equal(t, fidB, docs.Files[0].ID)
		require.Len(t, docs.Children, 1)

		api := docs.Children[0]
		assert.Equal(t, "api", api.Name)
		require.Len(t, api.Files, 1)
		assert.Equal(t, fidC, api.Files[0].ID)
	})
}

func TestBuildPath(t *testing.T) {
	t.Parallel()
	s, cleanup := testStore(t)
	defer cleanup()
	ctx := context.Background()

	fidDeep, _, err := s.SaveFile(ctx, "", "/a/b/c/deep.txt", "alice", []byte("x"))
	require.NoError(t, err)
	fidTop, _, err := s.SaveFile(ctx, "", "/top.txt", "alice", []byte("y"))
	require.NoError(t, err)

	list, err := s.ListAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, "a/b/c/deep.txt", list.BuildPath(list.Files[fidDeep]).String())
	assert.Equal(t, "top.txt", list.BuildPath(list.Files[fidTop]).String())
}
