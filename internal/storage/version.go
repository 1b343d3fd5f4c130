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
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// NewID returns a fresh random identifier: a url-safe base64 encoding of a
// UUID, 22 characters, no padding. Folder, file, version and blob ids all
// share this generator.
func NewID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// versionWriter drives the version state machine for one file inside one
// transaction. The zero value is not usable; fill tx and fid first.
type versionWriter struct {
	tx      bun.IDB
	fid     string
	vid     string
	frozen  bool
	author  string
	message string
}

// createFile materializes the folder chain for path, creates the file's
// first version with its chunks, and inserts the file row pointing at it.
func (w *versionWriter) createFile(ctx context.Context, path common.Path, compressed [][]byte) error {
	if path.IsEmpty() {
		return fmt.Errorf("file path is empty: %w", common.ErrInvalidPath)
	}
	dir, err := materializeFolder(ctx, w.tx, path.Truncate(1))
	if err != nil {
		return err
	}
	vid, err := w.createVersion(ctx, compressed)
	if err != nil {
		return err
	}
	return upsertFile(ctx, w.tx, &FileModel{
		ID:        w.fid,
		ParentID:  dir.ID,
		Name:      path.Tail(),
		VersionID: vid,
	})
}

// createVersion writes a brand-new mutable version with a fresh id and a
// fresh blob. The caller is responsible for pointing the file row at it.
func (w *versionWriter) createVersion(ctx context.Context, compressed [][]byte) (string, error) {
	w.vid = NewID()
	w.frozen = false
	if err := w.writeVersion(ctx, compressed, time.Now()); err != nil {
		return "", err
	}
	return w.vid, nil
}

// createSnapshot writes a new frozen version sharing an existing blob id.
// No chunk bytes are copied; the snapshot and its predecessor reference the
// same rows.
func (w *versionWriter) createSnapshot(ctx context.Context, bid string, stamp time.Time) (string, error) {
	w.vid = NewID()
	w.frozen = true
	if err := w.upsertVersionRow(ctx, bid, stamp); err != nil {
		return "", err
	}
	return w.vid, nil
}

// replaceVersion rewrites the blob of the current mutable version in place:
// the old chunks are deleted first, then a fresh blob is written under the
// same version id.
func (w *versionWriter) replaceVersion(ctx context.Context, compressed [][]byte) error {
	oldBid, err := getVersionBlob(ctx, w.tx, w.fid, w.vid)
	if err != nil {
		return fmt.Errorf("version %s of file %s: %w", w.vid, w.fid, err)
	}
	if err := deleteChunks(ctx, w.tx, oldBid); err != nil {
		return fmt.Errorf("cleanup blob %s: %w", oldBid, err)
	}
	return w.writeVersion(ctx, compressed, time.Now())
}

// writeVersion stores a fresh blob and upserts the version row pointing at it.
func (w *versionWriter) writeVersion(ctx context.Context, compressed [][]byte, stamp time.Time) error {
	bid := NewID()
	if err := w.upsertVersionRow(ctx, bid, stamp); err != nil {
		return err
	}
	return writeBlob(ctx, w.tx, bid, compressed)
}

func (w *versionWriter) upsertVersionRow(ctx context.Context, bid string, stamp time.Time) error {
	return upsertVersion(ctx, w.tx, &VersionModel{
		FileID:    w.fid,
		VersionID: w.vid,
		BlobID:    bid,
		Frozen:    w.frozen,
		CreatedAt: stamp.Unix(),
		Author:    w.author,
		Message:   w.message,
	})
}
