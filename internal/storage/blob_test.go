package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verfs/internal/common"
)

// roundTrip compresses a payload and reassembles it without touching the
// database, exercising the pure chunking/compression halves of the blob
// store.
func roundTrip(t *testing.T, payload []byte) []byte {
	t.Helper()
	compressed, err := blockCompress(payload)
	require.NoError(t, err)
	out, err := assembleBlob("test-blob", compressed)
	require.NoError(t, err)
	return out
}

func TestBlockCompressRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"one_byte", 1},
		{"small", 100},
		{"one_below_boundary", ChunkSize - 1},
		{"exact_boundary", ChunkSize},
		{"one_above_boundary", ChunkSize + 1},
		{"two_chunks_exact", 2 * ChunkSize},
		{"several_chunks", 3*ChunkSize + 12345},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload := make([]byte, tt.size)
			for i := range payload {
				payload[i] = byte(i * 31)
			}
			out := roundTrip(t, payload)
			assert.Equal(t, len(payload), len(out))
			assert.True(t, bytes.Equal(payload, out), "round trip must preserve bytes")
		})
	}
}

func TestBlockCompressChunkCount(t *testing.T) {
	t.Parallel()

	t.Run("empty payload has no chunks", func(t *testing.T) {
		t.Parallel()
		compressed, err := blockCompress(nil)
		require.NoError(t, err)
		assert.Empty(t, compressed)
	})

	t.Run("boundary remainder", func(t *testing.T) {
		t.Parallel()
		// 3 full chunks plus a remainder makes exactly 4 chunk rows,
		// the last decompressing to the remainder length.
		r := 7777
		payload := bytes.Repeat([]byte{0xAB}, 3*ChunkSize+r)
		compressed, err := blockCompress(payload)
		require.NoError(t, err)
		require.Len(t, compressed, 4)

		last, err := decompressChunk(compressed[3])
		require.NoError(t, err)
		assert.Len(t, last, r)
	})

	t.Run("exact multiple has no trailing chunk", func(t *testing.T) {
		t.Parallel()
		payload := bytes.Repeat([]byte{0x01}, 2*ChunkSize)
		compressed, err := blockCompress(payload)
		require.NoError(t, err)
		assert.Len(t, compressed, 2)
	})
}

func TestDecompressChunkCorruption(t *testing.T) {
	t.Parallel()

	_, err := decompressChunk([]byte("definitely not a zlib stream"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorrupted)
}

func TestChunksCompressIndependently(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("versioned hierarchy "), ChunkSize/10)
	compressed, err := blockCompress(payload)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)

	// Every chunk must decompress on its own, without its neighbors.
	total := 0
	for _, c := range compressed {
		data, err := decompressChunk(c)
		require.NoError(t, err)
		total += len(data)
	}
	assert.Equal(t, len(payload), total)
}
