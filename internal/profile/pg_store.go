package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS csv_profiles (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL,
	rules           JSONB NOT NULL,
	remove_header   BOOLEAN NOT NULL DEFAULT FALSE,
	input_encoding  TEXT NOT NULL DEFAULT '',
	output_encoding TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT csv_profiles_name_unique UNIQUE (name)
)`

const profileColumns = `id, name, rules, remove_header, input_encoding, output_encoding, created_at, updated_at`

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PgStore keeps profiles in the csv_profiles table.
type PgStore struct {
	db DBTX
}

// NewPgStore returns a store using db. Call EnsureSchema once before use.
func NewPgStore(db DBTX) *PgStore {
	return &PgStore{db: db}
}

// EnsureSchema creates the csv_profiles table if it does not exist.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create csv_profiles: %w", err)
	}
	return nil
}

func (s *PgStore) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `SELECT `+profileColumns+` FROM csv_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (s *PgStore) Get(ctx context.Context, id string) (*Profile, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM csv_profiles WHERE id = $1`, uid)
	return scanOne(row, "id "+id)
}

func (s *PgStore) GetByName(ctx context.Context, name string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM csv_profiles WHERE name = $1`, name)
	return scanOne(row, "name "+name)
}

func (s *PgStore) Create(ctx context.Context, p Profile) (*Profile, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rules, err := json.Marshal(p.Rules)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO csv_profiles (id, name, rules, remove_header, input_encoding, output_encoding)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+profileColumns,
		pgtype.UUID{Bytes: uuid.New(), Valid: true}, p.Name, rules, p.RemoveHeader, p.InputEncoding, p.OutputEncoding,
	)
	created, err := scanOne(row, "name "+p.Name)
	if err != nil {
		return nil, mapWriteError(err, p.Name)
	}
	return created, nil
}

func (s *PgStore) Update(ctx context.Context, p Profile) (*Profile, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	uid, err := parseID(p.ID)
	if err != nil {
		return nil, err
	}

	rules, err := json.Marshal(p.Rules)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE csv_profiles
		SET name = $2, rules = $3, remove_header = $4, input_encoding = $5, output_encoding = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		uid, p.Name, rules, p.RemoveHeader, p.InputEncoding, p.OutputEncoding,
	)
	updated, err := scanOne(row, "id "+p.ID)
	if err != nil {
		return nil, mapWriteError(err, p.Name)
	}
	return updated, nil
}

func (s *PgStore) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM csv_profiles WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return nil
}

func parseID(id string) (pgtype.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return pgtype.UUID{Bytes: uid, Valid: true}, nil
}

func mapWriteError(err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	return err
}

func scanOne(row pgx.Row, what string) (*Profile, error) {
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// scanProfile scans one csv_profiles row selected with profileColumns.
func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		id        pgtype.UUID
		rules     []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		p         Profile
	)

	err := row.Scan(&id, &p.Name, &rules, &p.RemoveHeader, &p.InputEncoding, &p.OutputEncoding, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rules, &p.Rules); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}

	if id.Valid {
		p.ID = uuid.UUID(id.Bytes).String()
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	p.normalize()
	return &p, nil
}
