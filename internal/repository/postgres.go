package repository

import (
	"context"
	"fmt"

	"cafe-finder/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoreError wraps a failed select or upsert.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

const schema = `
	CREATE TABLE IF NOT EXISTS cafes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		google_place_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		geohash TEXT,
		is_open_now BOOLEAN NOT NULL DEFAULT FALSE,
		opening_hours TEXT[],
		rating DOUBLE PRECISION,
		user_rating_count INTEGER NOT NULL DEFAULT 0,
		price_level SMALLINT,
		phone_number TEXT,
		website TEXT,
		last_updated TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS cafes_geohash_idx ON cafes (geohash);
`

const upsertSuffix = `ON CONFLICT (google_place_id) DO UPDATE SET
		name = EXCLUDED.name,
		address = EXCLUDED.address,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		geohash = EXCLUDED.geohash,
		is_open_now = EXCLUDED.is_open_now,
		opening_hours = EXCLUDED.opening_hours,
		rating = EXCLUDED.rating,
		user_rating_count = EXCLUDED.user_rating_count,
		price_level = EXCLUDED.price_level,
		phone_number = EXCLUDED.phone_number,
		website = EXCLUDED.website,
		last_updated = EXCLUDED.last_updated`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repository stores cafes in PostgreSQL
type Repository struct {
	db DBTX
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the cafes table if it does not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return &StoreError{Op: "create schema", Err: err}
	}
	return nil
}

// UpsertCafe inserts cafe or, when its place id is already stored, overwrites
// every other column with the new values.
func (r *Repository) UpsertCafe(ctx context.Context, cafe models.Cafe) error {
	sql, args, err := psql.Insert("cafes").
		Columns(
			"google_place_id",
			"name",
			"address",
			"latitude",
			"longitude",
			"geohash",
			"is_open_now",
			"opening_hours",
			"rating",
			"user_rating_count",
			"price_level",
			"phone_number",
			"website",
			"last_updated",
		).
		Values(
			cafe.GooglePlaceID,
			cafe.Name,
			cafe.Address,
			cafe.Latitude,
			cafe.Longitude,
			cafe.Geohash,
			cafe.IsOpenNow,
			cafe.OpeningHours,
			cafe.Rating,
			cafe.UserRatingCount,
			cafe.PriceLevel,
			cafe.PhoneNumber,
			cafe.Website,
			cafe.LastUpdated,
		).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("repository: failed to build upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return &StoreError{Op: "upsert " + cafe.GooglePlaceID, Err: err}
	}
	return nil
}

// ListCafePins returns id, name and coordinates of every stored cafe, or of
// those inside within when it is not nil.
func (r *Repository) ListCafePins(ctx context.Context, within *models.Bounds) ([]models.CafePin, error) {
	q := psql.Select("id::text", "name", "latitude", "longitude").
		From("cafes").
		OrderBy("name")
	if within != nil {
		q = q.Where(squirrel.And{
			squirrel.GtOrEq{"latitude": within.South},
			squirrel.LtOrEq{"latitude": within.North},
			squirrel.GtOrEq{"longitude": within.West},
			squirrel.LtOrEq{"longitude": within.East},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("repository: failed to build select: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, &StoreError{Op: "select cafes", Err: err}
	}
	defer rows.Close()

	pins := []models.CafePin{}
	for rows.Next() {
		var pin models.CafePin
		if err := rows.Scan(&pin.ID, &pin.Name, &pin.Latitude, &pin.Longitude); err != nil {
			return nil, &StoreError{Op: "scan cafe", Err: err}
		}
		pins = append(pins, pin)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate cafes", Err: err}
	}

	return pins, nil
}

// CountCafes returns the number of stored cafes
func (r *Repository) CountCafes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM cafes").Scan(&count); err != nil {
		return 0, &StoreError{Op: "count cafes", Err: err}
	}
	return count, nil
}
