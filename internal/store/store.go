// Package store persists folders and favorites in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/BootlifeXu/youtube-server/internal/web"
)

// Folder is a named grouping container for favorites.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Favorite is a saved video reference, optionally assigned to a folder.
type Favorite struct {
	VideoID      string  `json:"videoId"`
	Title        string  `json:"title"`
	Channel      string  `json:"channel"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	FolderID     *string `json:"folderId"`
}

// Store wraps the pooled database handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS folders (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_name ON folders(name COLLATE NOCASE);
CREATE TABLE IF NOT EXISTS favorites (
	video_id      TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	channel       TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL,
	folder_id     TEXT
);`)
	return err
}

// CreateFolder inserts a folder. Names colliding case-insensitively with an
// existing folder fail with Conflict.
func (s *Store) CreateFolder(ctx context.Context, name string) (Folder, error) {
	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return Folder{}, err
	}
	f := Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?)`,
		f.ID, f.Name, f.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Folder{}, fmt.Errorf("store: create folder: %w", err)
	}
	return f, nil
}

// ListFolders returns all folders, oldest first.
func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM folders ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list folders: %w", err)
	}
	defer rows.Close()

	folders := []Folder{}
	for rows.Next() {
		var f Folder
		var createdAt string
		if err := rows.Scan(&f.ID, &f.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan folder: %w", err)
		}
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// GetFolder returns one folder by ID.
func (s *Store) GetFolder(ctx context.Context, id string) (Folder, error) {
	var f Folder
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM folders WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Folder{}, fmt.Errorf("folder %s: %w", id, web.ErrNotFound)
	}
	if err != nil {
		return Folder{}, fmt.Errorf("store: get folder: %w", err)
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return f, nil
}

// RenameFolder updates a folder's name, with the same case-insensitive
// collision rule as CreateFolder.
func (s *Store) RenameFolder(ctx context.Context, id, name string) (Folder, error) {
	if err := s.checkNameFree(ctx, name, id); err != nil {
		return Folder{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE folders SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return Folder{}, fmt.Errorf("store: rename folder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Folder{}, fmt.Errorf("folder %s: %w", id, web.ErrNotFound)
	}
	return s.GetFolder(ctx, id)
}

// DeleteFolder detaches all favorites referencing the folder and removes the
// folder row, atomically. A missing folder leaves everything untouched.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin delete folder: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE favorites SET folder_id = NULL WHERE folder_id = ?`, id); err != nil {
		return fmt.Errorf("store: detach favorites: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete folder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("folder %s: %w", id, web.ErrNotFound)
	}
	return tx.Commit()
}

// ListFavorites returns all favorites, most recently saved last.
func (s *Store) ListFavorites(ctx context.Context) ([]Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, title, channel, thumbnail_url, folder_id FROM favorites ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.VideoID, &fav.Title, &fav.Channel, &fav.ThumbnailURL, &fav.FolderID); err != nil {
			return nil, fmt.Errorf("store: scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// SaveFavorite upserts a favorite keyed by video ID: re-adding an existing
// video refreshes its metadata and folder assignment instead of erroring.
func (s *Store) SaveFavorite(ctx context.Context, fav Favorite) (Favorite, error) {
	if fav.FolderID != nil {
		if _, err := s.GetFolder(ctx, *fav.FolderID); err != nil {
			return Favorite{}, err
		}
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO favorites (video_id, title, channel, thumbnail_url, folder_id)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(video_id) DO UPDATE SET
	title = excluded.title,
	channel = excluded.channel,
	thumbnail_url = excluded.thumbnail_url,
	folder_id = excluded.folder_id`,
		fav.VideoID, fav.Title, fav.Channel, fav.ThumbnailURL, fav.FolderID)
	if err != nil {
		return Favorite{}, fmt.Errorf("store: save favorite: %w", err)
	}
	return fav, nil
}

// DeleteFavorite removes a favorite by video ID.
func (s *Store) DeleteFavorite(ctx context.Context, videoID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("store: delete favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("favorite %s: %w", videoID, web.ErrNotFound)
	}
	return nil
}

// MoveFavorite reassigns a favorite to folderID, or to no folder when nil.
func (s *Store) MoveFavorite(ctx context.Context, videoID string, folderID *string) error {
	if folderID != nil {
		if _, err := s.GetFolder(ctx, *folderID); err != nil {
			return err
		}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE favorites SET folder_id = ? WHERE video_id = ?`, folderID, videoID)
	if err != nil {
		return fmt.Errorf("store: move favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("favorite %s: %w", videoID, web.ErrNotFound)
	}
	return nil
}

// checkNameFree enforces case-insensitive folder name uniqueness. excludeID
// lets a rename keep its own name.
func (s *Store) checkNameFree(ctx context.Context, name, excludeID string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM folders WHERE name = ? COLLATE NOCASE AND id <> ?`,
		name, excludeID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: check folder name: %w", err)
	}
	return fmt.Errorf("folder name %q already in use: %w", name, web.ErrConflict)
}
