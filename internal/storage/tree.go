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

	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// FullList is the complete in-memory listing of the hierarchy: every
// folder and file, linked parent to children. The root folder is never
// anyone's child.
type FullList struct {
	Folders map[string]*Folder
	Files   map[string]*File
	Root    *Folder
}

// ListAll loads the full folder and file tables and builds their
// parent/child associations. Both scans run under one snapshot read.
func (s *Store) ListAll(ctx context.Context) (*FullList, error) {
	list := &FullList{}
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		folderRows, err := scanFolders(ctx, tx)
		if err != nil {
			return err
		}
		fileRows, err := scanFiles(ctx, tx)
		if err != nil {
			return err
		}
		list.Folders = make(map[string]*Folder, len(folderRows))
		for i := range folderRows {
			f := folderRows[i].ToFolder()
			list.Folders[f.ID] = f
		}
		list.Files = make(map[string]*File, len(fileRows))
		for i := range fileRows {
			f := fileRows[i]
			list.Files[f.ID] = &f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list.fill(), nil
}

// fill links folders to their parents' children lists and files to their
// parents' file lists.
func (l *FullList) fill() *FullList {
	l.Root = l.Folders[RootID]
	for _, f := range l.Folders {
		if f.IsRoot() {
			continue
		}
		if p, ok := l.Folders[f.Parent]; ok {
			p.Children = append(p.Children, f)
		}
	}
	for _, f := range l.Files {
		if p, ok := l.Folders[f.Parent]; ok {
			p.Files = append(p.Files, f)
		}
	}
	return l
}

// BuildPath assembles the full path of a file by walking its ancestor
// folders up to the root sentinel.
func (l *FullList) BuildPath(file *File) common.Path {
	names := []string{file.Name}
	folder := l.Folders[file.Parent]
	for folder != nil && !folder.IsRoot() {
		names = append(names, folder.Name)
		folder = l.Folders[folder.Parent]
	}
	// names were collected leaf-first; reverse into path order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return common.JoinPath(names...)
}
