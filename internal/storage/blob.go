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

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// blockCompress splits the payload into chunks of at most ChunkSize bytes
// and compresses each chunk independently. An empty payload yields zero
// chunks. Compression runs outside any transaction; only the resulting rows
// are written inside one.
func blockCompress(data []byte) ([][]byte, error) {
	var compressed [][]byte
	for offset := 0; offset < len(data); offset += ChunkSize {
		end := offset + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data[offset:end]); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		compressed = append(compressed, buf.Bytes())
	}
	return compressed, nil
}

// decompressChunk inflates one stored chunk. A failure here means the
// stored bytes are damaged; retrying cannot help, so the error is marked
// as corruption and surfaced immediately.
func decompressChunk(compr []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorrupted, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorrupted, err)
	}
	return data, nil
}

// writeBlob stores the compressed chunks as rows keyed (blob id, position).
func writeBlob(ctx context.Context, idb bun.IDB, bid string, compressed [][]byte) error {
	for pos, data := range compressed {
		chunk := &BlobChunkModel{
			BlobID: bid,
			Pos:    int32(pos),
			Data:   data,
		}
		if err := insertChunk(ctx, idb, chunk); err != nil {
			return fmt.Errorf("write chunk %d of blob %s: %w", pos, bid, err)
		}
	}
	return nil
}

// readBlobRows collects the compressed chunks of one blob in position
// order, paging with the last-seen position as cursor until a short page
// signals the end.
func readBlobRows(ctx context.Context, idb bun.IDB, bid string) ([][]byte, error) {
	var rows [][]byte
	pos := int32(-1)
	for {
		page, err := readChunkPage(ctx, idb, bid, pos, chunkPageLimit)
		if err != nil {
			return nil, fmt.Errorf("read blob %s after pos %d: %w", bid, pos, err)
		}
		for _, chunk := range page {
			rows = append(rows, chunk.Data)
			if chunk.Pos > pos {
				pos = chunk.Pos
			}
		}
		if len(page) < chunkPageLimit {
			return rows, nil
		}
	}
}

// assembleBlob decompresses collected chunk rows and concatenates them in
// position order. Runs outside the transaction that read the rows.
func assembleBlob(bid string, rows [][]byte) ([]byte, error) {
	var out bytes.Buffer
	for pos, compr := range rows {
		data, err := decompressChunk(compr)
		if err != nil {
			return nil, fmt.Errorf("blob %s chunk %d: %w", bid, pos, err)
		}
		out.Write(data)
	}
	return out.Bytes(), nil
}
