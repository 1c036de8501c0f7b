// Package persistence stores albums in SQL on either database driver.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/lumina/internal/albums/domain"
	sharedDomain "github.com/felixgeelhaar/lumina/internal/shared/domain"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLAlbumRepository implements domain.Repository on a database.Connection.
type SQLAlbumRepository struct {
	conn database.Connection
}

// NewSQLAlbumRepository creates a new SQL album repository.
func NewSQLAlbumRepository(conn database.Connection) *SQLAlbumRepository {
	return &SQLAlbumRepository{conn: conn}
}

var _ domain.Repository = (*SQLAlbumRepository)(nil)

// Save inserts or updates an album and replaces its photos.
func (r *SQLAlbumRepository) Save(ctx context.Context, album *domain.Album) error {
	return database.InTx(ctx, r.conn, func(exec database.Executor) error {
		_, err := exec.Exec(ctx, `
			INSERT INTO albums (id, owner_id, name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				updated_at = excluded.updated_at`,
			album.ID(),
			album.OwnerID(),
			album.Name(),
			album.Description(),
			album.CreatedAt().UTC(),
			album.UpdatedAt().UTC(),
		)
		if err != nil {
			return fmt.Errorf("save album %s: %w", album.ID(), err)
		}

		if _, err := exec.Exec(ctx, `DELETE FROM photos WHERE album_id = ?`, album.ID()); err != nil {
			return fmt.Errorf("clear photos of album %s: %w", album.ID(), err)
		}
		for _, p := range album.Photos() {
			_, err := exec.Exec(ctx, `
				INSERT INTO photos (id, album_id, title, file_name, position, added_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				p.ID(), album.ID(), p.Title(), p.FileName(), p.Position(), p.AddedAt().UTC(),
			)
			if err != nil {
				return fmt.Errorf("save photo %s: %w", p.ID(), err)
			}
		}
		return nil
	})
}

// FindByID loads an album with its photos.
func (r *SQLAlbumRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	exec := database.ExecutorFor(ctx, r.conn)

	row := exec.QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM albums
		WHERE id = ?`, id)
	rec, err := scanAlbum(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, sharedDomain.ErrNotFound
		}
		return nil, err
	}

	photos, err := r.photos(ctx, exec, `
		SELECT id, album_id, title, file_name, position, added_at
		FROM photos
		WHERE album_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	return rec.album(photos[rec.id]), nil
}

// ListByOwner returns the owner's albums, newest first.
func (r *SQLAlbumRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Album, error) {
	exec := database.ExecutorFor(ctx, r.conn)

	rows, err := exec.Query(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM albums
		WHERE owner_id = ?
		ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, err
	}
	var records []albumRecord
	for rows.Next() {
		rec, err := scanAlbum(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if len(records) == 0 {
		return []*domain.Album{}, nil
	}

	photos, err := r.photos(ctx, exec, `
		SELECT p.id, p.album_id, p.title, p.file_name, p.position, p.added_at
		FROM photos p
		JOIN albums a ON a.id = p.album_id
		WHERE a.owner_id = ?
		ORDER BY p.album_id, p.position`, ownerID)
	if err != nil {
		return nil, err
	}

	albums := make([]*domain.Album, 0, len(records))
	for _, rec := range records {
		albums = append(albums, rec.album(photos[rec.id]))
	}
	return albums, nil
}

// Delete removes an album and its photos.
func (r *SQLAlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.InTx(ctx, r.conn, func(exec database.Executor) error {
		if _, err := exec.Exec(ctx, `DELETE FROM photos WHERE album_id = ?`, id); err != nil {
			return err
		}
		result, err := exec.Exec(ctx, `DELETE FROM albums WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sharedDomain.ErrNotFound
		}
		return nil
	})
}

// photos runs a photo query and groups the rows by album.
func (r *SQLAlbumRepository) photos(ctx context.Context, exec database.Executor, query string, arg any) (map[uuid.UUID][]*domain.Photo, error) {
	rows, err := exec.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byAlbum := make(map[uuid.UUID][]*domain.Photo)
	for rows.Next() {
		var (
			id, albumID     uuid.UUID
			title, fileName string
			position        int
			addedAt         time.Time
		)
		if err := rows.Scan(&id, &albumID, &title, &fileName, &position, &addedAt); err != nil {
			return nil, err
		}
		byAlbum[albumID] = append(byAlbum[albumID],
			domain.RehydratePhoto(id, albumID, title, fileName, position, addedAt.UTC()))
	}
	return byAlbum, rows.Err()
}

type albumRecord struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

func (rec albumRecord) album(photos []*domain.Photo) *domain.Album {
	return domain.RehydrateAlbum(rec.id, rec.ownerID, rec.name, rec.description,
		rec.createdAt.UTC(), rec.updatedAt.UTC(), photos)
}

func scanAlbum(row database.Row) (albumRecord, error) {
	var rec albumRecord
	err := row.Scan(&rec.id, &rec.ownerID, &rec.name, &rec.description, &rec.createdAt, &rec.updatedAt)
	return rec, err
}
