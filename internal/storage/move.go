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
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// MoveFile renames and moves a file to a new location, creating the
// destination folders as necessary. The file is resolved by id, or by
// oldPath when fid is empty. Content and file id are unchanged.
func (s *Store) MoveFile(ctx context.Context, fid, oldPath, newPath string) error {
	pNewFile := common.ParsePath(newPath)
	if pNewFile.IsEmpty() {
		return fmt.Errorf("destination %q: %w", newPath, common.ErrInvalidPath)
	}

	err := s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		file, err := resolveFile(ctx, tx, fid, common.ParsePath(oldPath))
		if err != nil {
			return fmt.Errorf("move source %q: %w", oldPath, err)
		}
		dest, err := materializeFolder(ctx, tx, pNewFile.Truncate(1))
		if err != nil {
			return err
		}
		return updateFileLocation(ctx, tx, file.ID, dest.ID, pNewFile.Tail())
	})
	if err != nil {
		return err
	}
	log.Debugf("[FS] MoveFile: fid=%s %q -> %q", fid, oldPath, newPath)
	return nil
}

// MoveFolder renames and moves a folder, creating the destination
// container folders as necessary. Sub-objects are not rewritten: they stay
// linked by folder id, so their effective paths change through ancestor
// lookup.
func (s *Store) MoveFolder(ctx context.Context, oldPath, newPath string) error {
	pOld := common.ParsePath(oldPath)
	pNew := common.ParsePath(newPath)
	if pOld.IsEmpty() {
		return fmt.Errorf("cannot move the root folder: %w", common.ErrInvalidPath)
	}
	if pNew.IsEmpty() {
		return fmt.Errorf("destination %q: %w", newPath, common.ErrInvalidPath)
	}

	err := s.writeTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		src, err := lookupFolder(ctx, tx, pOld)
		if err != nil {
			return fmt.Errorf("move source %q: %w", oldPath, err)
		}
		dest, err := materializeFolder(ctx, tx, pNew.Truncate(1))
		if err != nil {
			return err
		}
		if dest.ID == src.ID {
			return fmt.Errorf("cannot move %q into itself: %w", oldPath, common.ErrInvalidPath)
		}
		return updateFolderLocation(ctx, tx, src.ID, dest.ID, pNew.Tail())
	})
	if err != nil {
		return err
	}
	log.Debugf("[FS] MoveFolder: %q -> %q", oldPath, newPath)
	return nil
}
