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

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// RemoveFile deletes a file: all of its versions' blob chunks, all version
// rows, and the file row itself, in one transaction.
//
// With a non-empty path the file must exist (resolved by id, or by path
// when fid is empty) and a missing file is ErrNotFound. With an empty
// path the delete is a silent no-op for an unknown id.
func (s *Store) RemoveFile(ctx context.Context, fid, path string) error {
	err := s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		actualFid := fid
		if path != "" {
			file, err := resolveFile(ctx, tx, fid, common.ParsePath(path))
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("remove %q: %w", path, common.ErrNotFound)
			}
			if err != nil {
				return err
			}
			actualFid = file.ID
		}
		bids, err := listBlobIDs(ctx, tx, actualFid)
		if err != nil {
			return err
		}
		for _, bid := range bids {
			if err := deleteChunks(ctx, tx, bid); err != nil {
				return err
			}
		}
		if err := deleteVersionRows(ctx, tx, actualFid); err != nil {
			return err
		}
		return deleteFileRow(ctx, tx, actualFid)
	})
	if err != nil {
		return err
	}
	log.Debugf("[FS] RemoveFile: fid=%s path=%q", fid, path)
	return nil
}

// RemoveFolder deletes a folder and everything beneath it.
//
// The descendants are collected first under one snapshot read using an
// explicit work stack (no recursion, bounded depth). Files are then
// deleted one at a time, each in its own transaction, and the folder rows
// are dropped in one final batch. The operation is not atomic end to end:
// a crash mid-way leaves a partially deleted subtree, which a repeated
// RemoveFolder cleans up. This trades atomicity for bounded transaction
// size on large subtrees.
func (s *Store) RemoveFolder(ctx context.Context, path string) error {
	pFolder := common.ParsePath(path)
	if pFolder.IsEmpty() {
		return fmt.Errorf("cannot remove the root folder: %w", common.ErrInvalidPath)
	}

	// Phase 1: collect descendant folders and files under a snapshot read.
	var fileIDs []string
	var folderIDs []string
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		fileIDs = fileIDs[:0]
		folderIDs = folderIDs[:0]
		dir, err := lookupFolder(ctx, tx, pFolder)
		if err != nil {
			return fmt.Errorf("remove %q: %w", path, err)
		}
		work := []*Folder{dir}
		for len(work) > 0 {
			cur := work[len(work)-1]
			work = work[:len(work)-1]
			folderIDs = append(folderIDs, cur.ID)
			ids, err := listFileIDs(ctx, tx, cur.ID)
			if err != nil {
				return err
			}
			fileIDs = append(fileIDs, ids...)
			subs, err := listSubFolders(ctx, tx, cur.ID)
			if err != nil {
				return err
			}
			for i := range subs {
				work = append(work, subs[i].ToFolder())
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Phase 2: drop files one by one, one file per transaction (slow, but
	// keeps every transaction small).
	for _, fid := range fileIDs {
		if err := s.RemoveFile(ctx, fid, ""); err != nil {
			return fmt.Errorf("remove file %s under %q: %w", fid, path, err)
		}
	}

	// Phase 3: batch drop the folder rows.
	err = s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		return deleteFolderRows(ctx, tx, folderIDs)
	})
	if err != nil {
		return err
	}
	log.Debugf("[FS] RemoveFolder: path=%q folders=%d files=%d", path, len(folderIDs), len(fileIDs))
	return nil
}
