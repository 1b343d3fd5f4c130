package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"verfs/internal/common"
)

// Typed row operations over the store tables. Every function takes a
// bun.IDB so it can run inside whichever transaction the caller owns.

// --- Folder Operations ---

// getFolderChild looks up a folder by (parent id, name) in the folder index.
func getFolderChild(ctx context.Context, idb bun.IDB, parentID, name string) (*FolderModel, error) {
	var folder FolderModel
	err := idb.NewSelect().
		Model(&folder).
		Where("parent_id = ?", parentID).
		Where("name = ?", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// insertFolder adds a new folder row.
func insertFolder(ctx context.Context, idb bun.IDB, folder *FolderModel) error {
	_, err := idb.NewInsert().Model(folder).Exec(ctx)
	return err
}

// listSubFolders returns the immediate child folders of parentID.
func listSubFolders(ctx context.Context, idb bun.IDB, parentID string) ([]FolderModel, error) {
	var folders []FolderModel
	err := idb.NewSelect().
		Model(&folders).
		Where("parent_id = ?", parentID).
		Where("id != ?", RootID).
		Scan(ctx)
	return folders, err
}

// updateFolderLocation repoints a folder row to a new parent and name.
func updateFolderLocation(ctx context.Context, idb bun.IDB, id, newParentID, newName string) error {
	_, err := idb.NewUpdate().
		Model((*FolderModel)(nil)).
		Set("parent_id = ?", newParentID).
		Set("name = ?", newName).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// deleteFolderRows removes the given folder rows in one batch. The root
// sentinel is never deleted.
func deleteFolderRows(ctx context.Context, idb bun.IDB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := idb.NewDelete().
		Model((*FolderModel)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Where("id != ?", RootID).
		Exec(ctx)
	return err
}

// scanFolders loads the full folder table.
func scanFolders(ctx context.Context, idb bun.IDB) ([]FolderModel, error) {
	var folders []FolderModel
	err := idb.NewSelect().Model(&folders).Scan(ctx)
	return folders, err
}

// --- File Operations ---

// getFileByID retrieves a file row plus the frozen flag of its current
// version.
func getFileByID(ctx context.Context, idb bun.IDB, fid string) (*File, error) {
	var row struct {
		ParentID  string `bun:"parent_id"`
		Name      string `bun:"name"`
		VersionID string `bun:"version_id"`
		Frozen    bool   `bun:"frozen"`
	}
	err := idb.NewRaw(`
		SELECT f.parent_id, f.name, f.version_id, v.frozen
		FROM files f
		INNER JOIN versions v ON v.file_id = f.id AND v.version_id = f.version_id
		WHERE f.id = ?
	`, fid).Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &File{
		ID:      fid,
		Parent:  row.ParentID,
		Name:    row.Name,
		Version: row.VersionID,
		Frozen:  row.Frozen,
	}, nil
}

// getFileIn retrieves a file row by (parent folder, name), plus the frozen
// flag of its current version.
func getFileIn(ctx context.Context, idb bun.IDB, parentID, name string) (*File, error) {
	var row struct {
		ID        string `bun:"id"`
		VersionID string `bun:"version_id"`
		Frozen    bool   `bun:"frozen"`
	}
	err := idb.NewRaw(`
		SELECT f.id, f.version_id, v.frozen
		FROM files f
		INNER JOIN versions v ON v.file_id = f.id AND v.version_id = f.version_id
		WHERE f.parent_id = ? AND f.name = ?
	`, parentID, name).Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &File{
		ID:      row.ID,
		Parent:  parentID,
		Name:    name,
		Version: row.VersionID,
		Frozen:  row.Frozen,
	}, nil
}

// upsertFile inserts a file row or replaces its location and current
// version pointer.
func upsertFile(ctx context.Context, idb bun.IDB, file *FileModel) error {
	_, err := idb.NewInsert().
		Model(file).
		On("CONFLICT (id) DO UPDATE").
		Set("parent_id = EXCLUDED.parent_id").
		Set("name = EXCLUDED.name").
		Set("version_id = EXCLUDED.version_id").
		Exec(ctx)
	return err
}

// updateFileVersion repoints a file's current-version pointer.
func updateFileVersion(ctx context.Context, idb bun.IDB, fid, vid string) error {
	_, err := idb.NewUpdate().
		Model((*FileModel)(nil)).
		Set("version_id = ?", vid).
		Where("id = ?", fid).
		Exec(ctx)
	return err
}

// updateFileLocation moves a file row to a new parent folder and name.
func updateFileLocation(ctx context.Context, idb bun.IDB, fid, newParentID, newName string) error {
	_, err := idb.NewUpdate().
		Model((*FileModel)(nil)).
		Set("parent_id = ?", newParentID).
		Set("name = ?", newName).
		Where("id = ?", fid).
		Exec(ctx)
	return err
}

// deleteFileRow removes a file row.
func deleteFileRow(ctx context.Context, idb bun.IDB, fid string) error {
	_, err := idb.NewDelete().
		Model((*FileModel)(nil)).
		Where("id = ?", fid).
		Exec(ctx)
	return err
}

// listFileIDs returns the ids of all files directly within a folder.
func listFileIDs(ctx context.Context, idb bun.IDB, folderID string) ([]string, error) {
	var ids []string
	err := idb.NewSelect().
		Model((*FileModel)(nil)).
		Column("id").
		Where("parent_id = ?", folderID).
		Scan(ctx, &ids)
	return ids, err
}

// scanFiles loads the full file table, with the frozen flag of each
// file's current version.
func scanFiles(ctx context.Context, idb bun.IDB) ([]File, error) {
	var rows []struct {
		ID        string `bun:"id"`
		ParentID  string `bun:"parent_id"`
		Name      string `bun:"name"`
		VersionID string `bun:"version_id"`
		Frozen    bool   `bun:"frozen"`
	}
	err := idb.NewRaw(`
		SELECT f.id, f.parent_id, f.name, f.version_id, v.frozen
		FROM files f
		INNER JOIN versions v ON v.file_id = f.id AND v.version_id = f.version_id
	`).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	files := make([]File, len(rows))
	for i, row := range rows {
		files[i] = File{
			ID:      row.ID,
			Parent:  row.ParentID,
			Name:    row.Name,
			Version: row.VersionID,
			Frozen:  row.Frozen,
		}
	}
	return files, nil
}

// --- Version Operations ---

// upsertVersion inserts a version row or replaces its content pointer and
// metadata.
func upsertVersion(ctx context.Context, idb bun.IDB, version *VersionModel) error {
	_, err := idb.NewInsert().
		Model(version).
		On("CONFLICT (file_id, version_id) DO UPDATE").
		Set("blob_id = EXCLUDED.blob_id").
		Set("frozen = EXCLUDED.frozen").
		Set("created_at = EXCLUDED.created_at").
		Set("author = EXCLUDED.author").
		Set("message = EXCLUDED.message").
		Exec(ctx)
	return err
}

// freezeVersion flips a version to frozen in place and stamps its metadata.
func freezeVersion(ctx context.Context, idb bun.IDB, fid, vid string, stamp int64, author, message string) error {
	_, err := idb.NewUpdate().
		Model((*VersionModel)(nil)).
		Set("frozen = ?", true).
		Set("created_at = ?", stamp).
		Set("author = ?", author).
		Set("message = ?", message).
		Where("file_id = ?", fid).
		Where("version_id = ?", vid).
		Exec(ctx)
	return err
}

// getVersionBlob returns the blob id of one specific version.
func getVersionBlob(ctx context.Context, idb bun.IDB, fid, vid string) (string, error) {
	var bid string
	err := idb.NewSelect().
		Model((*VersionModel)(nil)).
		Column("blob_id").
		Where("file_id = ?", fid).
		Where("version_id = ?", vid).
		Scan(ctx, &bid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	return bid, err
}

// getCurrentBlob returns the blob id of a file's current version.
func getCurrentBlob(ctx context.Context, idb bun.IDB, fid string) (string, error) {
	var bid string
	err := idb.NewRaw(`
		SELECT v.blob_id
		FROM files f
		INNER JOIN versions v ON v.file_id = f.id AND v.version_id = f.version_id
		WHERE f.id = ?
	`, fid).Scan(ctx, &bid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	return bid, err
}

// listVersions returns all version rows of a file, oldest first.
func listVersions(ctx context.Context, idb bun.IDB, fid string) ([]VersionModel, error) {
	var versions []VersionModel
	err := idb.NewSelect().
		Model(&versions).
		Where("file_id = ?", fid).
		Order("created_at ASC").
		Scan(ctx)
	return versions, err
}

// listBlobIDs returns the distinct blob ids referenced by a file's versions.
func listBlobIDs(ctx context.Context, idb bun.IDB, fid string) ([]string, error) {
	var bids []string
	err := idb.NewSelect().
		Model((*VersionModel)(nil)).
		ColumnExpr("DISTINCT blob_id").
		Where("file_id = ?", fid).
		Scan(ctx, &bids)
	return bids, err
}

// deleteVersionRows removes all version rows of a file.
func deleteVersionRows(ctx context.Context, idb bun.IDB, fid string) error {
	_, err := idb.NewDelete().
		Model((*VersionModel)(nil)).
		Where("file_id = ?", fid).
		Exec(ctx)
	return err
}

// --- Blob Chunk Operations ---

// insertChunk adds one compressed chunk row.
func insertChunk(ctx context.Context, idb bun.IDB, chunk *BlobChunkModel) error {
	_, err := idb.NewInsert().
		Model(chunk).
		On("CONFLICT (blob_id, pos) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	return err
}

// readChunkPage fetches up to limit chunk rows after the given position,
// in position order. The caller loops with the last-seen position as the
// cursor until a short page is returned.
func readChunkPage(ctx context.Context, idb bun.IDB, bid string, afterPos int32, limit int) ([]BlobChunkModel, error) {
	var chunks []BlobChunkModel
	err := idb.NewSelect().
		Model(&chunks).
		Where("blob_id = ?", bid).
		Where("pos > ?", afterPos).
		Order("pos ASC").
		Limit(limit).
		Scan(ctx)
	return chunks, err
}

// deleteChunks removes all chunk rows of one blob.
func deleteChunks(ctx context.Context, idb bun.IDB, bid string) error {
	_, err := idb.NewDelete().
		Model((*BlobChunkModel)(nil)).
		Where("blob_id = ?", bid).
		Exec(ctx)
	return err
}

// countChunks returns the number of chunk rows in the whole store.
// Used by tests and the CLI info output.
func countChunks(ctx context.Context, idb bun.IDB) (int, error) {
	count, err := idb.NewSelect().Model((*BlobChunkModel)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}
