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

	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// rootFolder is the fixed starting point of every path walk. It is never
// looked up by name.
func rootFolder() *Folder {
	return &Folder{ID: RootID, Parent: RootID, Name: common.RootName}
}

// lookupFolder walks the path segment by segment through the folder-name
// index. The empty path resolves to the root sentinel. A missing segment
// stops the walk with ErrNotFound.
func lookupFolder(ctx context.Context, idb bun.IDB, path common.Path) (*Folder, error) {
	parent := rootFolder()
	for _, name := range path.Segments {
		row, err := getFolderChild(ctx, idb, parent.ID, name)
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("folder %q under %q: %w", name, parent.ID, common.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		parent = row.ToFolder()
	}
	return parent, nil
}

// materializeFolder walks like lookupFolder but creates a fresh folder row
// for every segment not found, continuing from there. Once one segment is
// missing all deeper segments must be missing too, so the walk stops
// probing the index after the first miss.
//
// New ids are generated per attempt; re-running the enclosing transaction
// closure regenerates them (the unique (parent_id, name) index rejects a
// duplicate left behind by a partially committed earlier attempt).
func materializeFolder(ctx context.Context, idb bun.IDB, path common.Path) (*Folder, error) {
	parent := rootFolder()
	exists := true
	for _, name := range path.Segments {
		if exists {
			row, err := getFolderChild(ctx, idb, parent.ID, name)
			switch {
			case err == nil:
				parent = row.ToFolder()
				continue
			case errors.Is(err, common.ErrNotFound):
				exists = false
			default:
				return nil, err
			}
		}
		id := NewID()
		if id == parent.ID {
			// A folder must never be its own parent; only the root
			// sentinel is self-parented.
			return nil, fmt.Errorf("folder id collision under %q: %w", parent.ID, common.ErrExists)
		}
		if err := insertFolder(ctx, idb, &FolderModel{ID: id, ParentID: parent.ID, Name: name}); err != nil {
			return nil, fmt.Errorf("create folder %q under %q: %w", name, parent.ID, err)
		}
		parent = &Folder{ID: id, Parent: parent.ID, Name: name}
	}
	return parent, nil
}

// lookupFileByPath resolves a file by full path: the containing folder via
// the index walk, then the (parent, name) pair.
func lookupFileByPath(ctx context.Context, idb bun.IDB, path common.Path) (*File, error) {
	dir, err := lookupFolder(ctx, idb, path.Truncate(1))
	if err != nil {
		return nil, err
	}
	return getFileIn(ctx, idb, dir.ID, path.Tail())
}

// resolveFile locates a file by id when one is given, otherwise by path.
func resolveFile(ctx context.Context, idb bun.IDB, fid string, path common.Path) (*File, error) {
	if fid != "" {
		return getFileByID(ctx, idb, fid)
	}
	return lookupFileByPath(ctx, idb, path)
}
