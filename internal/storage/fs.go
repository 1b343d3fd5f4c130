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
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// DefaultSaveMessage is stamped on versions written by plain saves; real
// messages arrive only through checkpoints.
const DefaultSaveMessage = "-"

// SaveFile writes a file's content.
//
// With an empty fid the file is resolved by path; if nothing is there
// either, a fresh id is generated and the file is created (folders
// materialized as needed). For existing files the path argument is ignored.
// If the current version is frozen by a checkpoint a new version is
// created, otherwise the current version is replaced in place.
//
// Returns the effective file id and whether a new file was created.
func (s *Store) SaveFile(ctx context.Context, fid, path, author string, data []byte) (string, bool, error) {
	// Compression deliberately happens outside the transaction.
	compressed, err := blockCompress(data)
	if err != nil {
		return "", false, fmt.Errorf("compress %q: %w", path, err)
	}

	var (
		actualFid string
		created   bool
	)
	err = s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		actualFid = fid
		var file *File
		var err error
		if fid == "" {
			file, err = lookupFileByPath(ctx, tx, common.ParsePath(path))
		} else {
			file, err = getFileByID(ctx, tx, fid)
		}
		switch {
		case err == nil:
			actualFid = file.ID
		case errors.Is(err, common.ErrNotFound):
			file = nil
			if actualFid == "" {
				actualFid = NewID()
			}
		default:
			return err
		}

		w := &versionWriter{tx: tx, fid: actualFid, author: author, message: DefaultSaveMessage}
		switch {
		case file == nil:
			created = true
			return w.createFile(ctx, common.ParsePath(path), compressed)
		case file.Frozen:
			created = false
			vid, err := w.createVersion(ctx, compressed)
			if err != nil {
				return err
			}
			return updateFileVersion(ctx, tx, actualFid, vid)
		default:
			created = false
			w.vid = file.Version
			return w.replaceVersion(ctx, compressed)
		}
	})
	if err != nil {
		return "", false, err
	}
	log.Debugf("[FS] SaveFile: fid=%s path=%q created=%v chunks=%d", actualFid, path, created, len(compressed))
	return actualFid, created, nil
}

// ReadFile returns a file's content: the current version when vid is
// empty, otherwise the given version. Returns ErrNotFound if the file or
// version does not exist.
func (s *Store) ReadFile(ctx context.Context, fid, vid string) ([]byte, error) {
	var rows [][]byte
	var bid string
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		var err error
		if vid == "" {
			bid, err = getCurrentBlob(ctx, tx, fid)
		} else {
			bid, err = getVersionBlob(ctx, tx, fid, vid)
		}
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("file %s version %q: %w", fid, vid, common.ErrNotFound)
		}
		if err != nil {
			return err
		}
		rows, err = readBlobRows(ctx, tx, bid)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Decompression deliberately happens outside the transaction.
	return assembleBlob(bid, rows)
}

// Checkpoint freezes a file's current version, resolving the file by id
// or, with an empty fid, by path.
//
// A mutable current version is frozen in place and stamped with the
// message, author and timestamp; its id is returned unchanged. An
// already-frozen current version (no edits since the last checkpoint)
// yields a new frozen version row sharing the same blob id, with no chunk
// bytes copied, and the file pointer moves to it.
func (s *Store) Checkpoint(ctx context.Context, fid, path, message, author string, stamp time.Time) (string, error) {
	var versionID string
	err := s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		file, err := resolveFile(ctx, tx, fid, common.ParsePath(path))
		if err != nil {
			return fmt.Errorf("checkpoint %q: %w", path, err)
		}
		if file.Frozen {
			bid, err := getCurrentBlob(ctx, tx, file.ID)
			if err != nil {
				return err
			}
			w := &versionWriter{tx: tx, fid: file.ID, author: author, message: message}
			versionID, err = w.createSnapshot(ctx, bid, stamp)
			if err != nil {
				return err
			}
			return updateFileVersion(ctx, tx, file.ID, versionID)
		}
		versionID = file.Version
		return freezeVersion(ctx, tx, file.ID, file.Version, stamp.Unix(), author, message)
	})
	if err != nil {
		return "", err
	}
	log.Debugf("[FS] Checkpoint: fid=%s path=%q vid=%s", fid, path, versionID)
	return versionID, nil
}

// History returns a file's revisions ordered by timestamp, oldest first.
func (s *Store) History(ctx context.Context, fid string) ([]Revision, error) {
	var revisions []Revision
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		versions, err := listVersions(ctx, tx, fid)
		if err != nil {
			return err
		}
		revisions = make([]Revision, len(versions))
		for i, v := range versions {
			revisions[i] = v.ToRevision()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revisions, nil
}

// LocateFile retrieves a file description by id.
func (s *Store) LocateFile(ctx context.Context, fid string) (*File, error) {
	var file *File
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		var err error
		file, err = getFileByID(ctx, tx, fid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// LocateFileByPath retrieves a file description by full path.
func (s *Store) LocateFileByPath(ctx context.Context, path string) (*File, error) {
	var file *File
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		var err error
		file, err = lookupFileByPath(ctx, tx, common.ParsePath(path))
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// LocateFolder retrieves a folder description by path. The empty path (or
// "/") resolves to the root sentinel.
func (s *Store) LocateFolder(ctx context.Context, path string) (*Folder, error) {
	var folder *Folder
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		var err error
		folder, err = lookupFolder(ctx, tx, common.ParsePath(path))
		return err
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}
