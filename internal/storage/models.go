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
	"time"

	"github.com/uptrace/bun"
)

// Bun ORM models for the verfs store tables.

// SchemaInfoModel represents the schema_info table
type SchemaInfoModel struct {
	bun.BaseModel `bun:"table:schema_info"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// FolderModel represents one row of the folders table.
type FolderModel struct {
	bun.BaseModel `bun:"table:folders"`

	ID       string `bun:"id,pk"`
	ParentID string `bun:"parent_id,notnull"`
	Name     string `bun:"name,notnull"`
}

// FileModel represents one row of the files table.
type FileModel struct {
	bun.BaseModel `bun:"table:files"`

	ID        string `bun:"id,pk"`
	ParentID  string `bun:"parent_id,notnull"`
	Name      string `bun:"name,notnull"`
	VersionID string `bun:"version_id,notnull"`
}

// VersionModel represents one row of the versions table.
// Times are stored as Unix timestamps in the database.
type VersionModel struct {
	bun.BaseModel `bun:"table:versions"`

	FileID    string `bun:"file_id,pk"`
	VersionID string `bun:"version_id,pk"`
	BlobID    string `bun:"blob_id,notnull"`
	Frozen    bool   `bun:"frozen,notnull"`
	CreatedAt int64  `bun:"created_at,notnull"` // Unix timestamp
	Author    string `bun:"author,notnull"`
	Message   string `bun:"message,notnull"`
}

// BlobChunkModel represents one compressed chunk row of the blob_chunks table.
type BlobChunkModel struct {
	bun.BaseModel `bun:"table:blob_chunks"`

	BlobID string `bun:"blob_id,pk"`
	Pos    int32  `bun:"pos,pk"`
	Data   []byte `bun:"data,notnull"`
}

// Folder describes one folder of the hierarchy. Children and Files are
// populated only by ListAll.
type Folder struct {
	ID       string
	Parent   string
	Name     string
	Children []*Folder
	Files    []*File
}

// IsRoot reports whether the folder is the root sentinel.
func (f *Folder) IsRoot() bool {
	return f.Parent == "" || f.ID == f.Parent
}

// ToFolder converts a FolderModel to a Folder.
func (m *FolderModel) ToFolder() *Folder {
	return &Folder{
		ID:     m.ID,
		Parent: m.ParentID,
		Name:   m.Name,
	}
}

// File describes one file and its current-version state.
type File struct {
	ID      string
	Parent  string
	Name    string
	Version string
	Frozen  bool
}

// Revision is one entry of a file's version history.
type Revision struct {
	VersionID string
	Stamp     time.Time
	Frozen    bool
	Author    string
	Message   string
}

// ToRevision converts a VersionModel to a Revision.
func (m *VersionModel) ToRevision() Revision {
	return Revision{
		VersionID: m.VersionID,
		Stamp:     time.Unix(m.CreatedAt, 0),
		Frozen:    m.Frozen,
		Author:    m.Author,
		Message:   m.Message,
	}
}
