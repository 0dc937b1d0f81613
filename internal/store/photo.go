package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Photo represents one entry of the ordered photo collection. Position
// is the dense, zero-based collection index the scene derives its
// "photo-N" item ids from.
type Photo struct {
	ID        string
	Position  int
	Path      string
	CreatedAt time.Time
}

// PhotoRepository provides CRUD operations for photos.
type PhotoRepository struct {
	db *sql.DB
}

// Photos returns the photo repository for this store.
func (s *Store) Photos() *PhotoRepository {
	return &PhotoRepository{db: s.db}
}

// Create appends a photo at the end of the collection.
func (r *PhotoRepository) Create(p *Photo) error {
	p.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(position) + 1 FROM photos`).Scan(&next); err != nil {
		return err
	}
	if next.Valid {
		p.Position = int(next.Int64)
	} else {
		p.Position = 0
	}

	_, err = tx.Exec(
		`INSERT INTO photos (id, position, path, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Position, p.Path, p.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// List returns all photos ordered by collection position.
func (r *PhotoRepository) List() ([]*Photo, error) {
	rows, err := r.db.Query(
		`SELECT id, position, path, created_at FROM photos ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.Position, &p.Path, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

// GetByID retrieves a single photo.
func (r *PhotoRepository) GetByID(id string) (*Photo, error) {
	var p Photo
	err := r.db.QueryRow(
		`SELECT id, position, path, created_at FROM photos WHERE id = ?`, id,
	).Scan(&p.ID, &p.Position, &p.Path, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPosition retrieves the photo at a collection index.
func (r *PhotoRepository) GetByPosition(position int) (*Photo, error) {
	var p Photo
	err := r.db.QueryRow(
		`SELECT id, position, path, created_at FROM photos WHERE position = ?`, position,
	).Scan(&p.ID, &p.Position, &p.Path, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a photo and compacts the positions above it, keeping
// the collection index dense.
func (r *PhotoRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`SELECT position FROM photos WHERE id = ?`, id).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM photos WHERE id = ?`, id); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE photos SET position = position - 1 WHERE position > ?`, position,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Count returns the number of photos in the collection.
func (r *PhotoRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
