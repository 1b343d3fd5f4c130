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
)

// Stats holds store-wide row counts. Folders excludes the root sentinel.
type Stats struct {
	Folders  int
	Files    int
	Versions int
	Chunks   int
}

// Stats counts the store's rows under one snapshot read.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.readTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		var err error
		stats.Folders, err = tx.NewSelect().
			Model((*FolderModel)(nil)).
			Where("id != ?", RootID).
			Count(ctx)
		if err != nil {
			return err
		}
		stats.Files, err = tx.NewSelect().Model((*FileModel)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		stats.Versions, err = tx.NewSelect().Model((*VersionModel)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		stats.Chunks, err = countChunks(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
