package boat

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/boat-rental-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, b *Boat) error
	GetByID(ctx context.Context, id string) (*Boat, error)
	List(ctx context.Context, filter Filter) ([]*Boat, int, error)
	Update(ctx context.Context, b *Boat) error
	Delete(ctx context.Context, id string) error
	HasBookings(ctx context.Context, id string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var boatColumns = []string{
	"id", "name", "description", "location", "day_rate", "capacity",
	"is_available", "rating", "owner_id", "created_at", "updated_at",
}

func scanBoat(row pgx.Row, extra ...any) (*Boat, error) {
	var b Boat
	dest := []any{
		&b.ID, &b.Name, &b.Description, &b.Location, &b.DayRate, &b.Capacity,
		&b.IsAvailable, &b.Rating, &b.OwnerID, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrNameTaken
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return ErrHasBookings
		}
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, b *Boat) error {
	query, args, err := psql.Insert("public.boats").
		Columns("name", "description", "location", "day_rate", "capacity", "is_available", "rating", "owner_id").
		Values(b.Name, b.Description, b.Location, b.DayRate, b.Capacity, b.IsAvailable, b.Rating, b.OwnerID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create boat query failed: %w", err)
	}

	if err := db.Executor(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create boat failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Boat, error) {
	query, args, err := psql.Select(boatColumns...).
		From("public.boats").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get boat query failed: %w", err)
	}

	b, err := scanBoat(db.Executor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get boat failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Boat, int, error) {
	query := psql.Select(append(boatColumns, "count(*) OVER() AS total_count")...).
		From("public.boats")

	if filter.Location != "" {
		query = query.Where(squirrel.ILike{"location": "%" + filter.Location + "%"})
	}
	if filter.Available != nil {
		query = query.Where(squirrel.Eq{"is_available": *filter.Available})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"capacity": filter.MinCapacity})
	}

	// Sorting
	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy+" "+orderDir, "id")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list boats query failed: %w", err)
	}

	rows, err := db.Executor(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list boats failed: %w", err)
	}
	defer rows.Close()

	var boats []*Boat
	var total int
	for rows.Next() {
		b, err := scanBoat(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan boat failed: %w", err)
		}
		boats = append(boats, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list boats failed: %w", err)
	}

	return boats, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Boat) error {
	query, args, err := psql.Update("public.boats").
		Set("name", b.Name).
		Set("description", b.Description).
		Set("location", b.Location).
		Set("day_rate", b.DayRate).
		Set("capacity", b.Capacity).
		Set("is_available", b.IsAvailable).
		Set("rating", b.Rating).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update boat query failed: %w", err)
	}

	if err := db.Executor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update boat failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.boats").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete boat query failed: %w", err)
	}

	ct, err := db.Executor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete boat failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasBookings(ctx context.Context, id string) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"boat_id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build boat bookings query failed: %w", err)
	}

	var exists bool
	if err := db.Executor(ctx, r.pool).QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check boat bookings failed: %w", err)
	}
	return exists, nil
}
