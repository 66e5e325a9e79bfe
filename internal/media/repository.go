package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/boat-rental-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	ListByBoat(ctx context.Context, boatID string) ([]*Media, error)
	Delete(ctx context.Context, id string) error
	DeleteByBoat(ctx context.Context, boatID string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var mediaColumns = []string{
	"id", "boat_id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at",
}

func scanMedia(row pgx.Row) (*Media, error) {
	m := &Media{}
	if err := row.Scan(
		&m.ID,
		&m.BoatID,
		&m.UploadedBy,
		&m.Filename,
		&m.StoragePath,
		&m.ThumbnailPath,
		&m.ContentType,
		&m.Size,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) Create(ctx context.Context, m *Media) error {
	query, args, err := psql.Insert("public.boat_media").
		Columns(mediaColumns...).
		Values(m.ID, m.BoatID, m.UploadedBy, m.Filename, m.StoragePath, m.ThumbnailPath, m.ContentType, m.Size, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.Executor(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create media record: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Media, error) {
	query, args, err := psql.Select(mediaColumns...).
		From("public.boat_media").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	m, err := scanMedia(db.Executor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return m, nil
}

func (r *repository) ListByBoat(ctx context.Context, boatID string) ([]*Media, error) {
	query, args, err := psql.Select(mediaColumns...).
		From("public.boat_media").
		Where(squirrel.Eq{"boat_id": boatID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.Executor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var items []*Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}
	return items, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.boat_media").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := db.Executor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteByBoat(ctx context.Context, boatID string) error {
	query, args, err := psql.Delete("public.boat_media").
		Where(squirrel.Eq{"boat_id": boatID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := db.Executor(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete boat media records: %w", err)
	}
	return nil
}
