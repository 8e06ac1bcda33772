// Package sqlstore implements catalog.Store on database/sql, backed by SQLite
// (modernc.org/sqlite) or PostgreSQL (pgx).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

const schema = `CREATE TABLE IF NOT EXISTS products (
	product_id     TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL,
	currency       TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	target_species TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	updated_at     BIGINT NOT NULL
)`

const index = `CREATE INDEX IF NOT EXISTS products_updated_at_idx ON products (updated_at DESC)`

const columns = `product_id, name, price, currency, category, status, target_species, description, updated_at`

// updated_at holds unix microseconds; the CASE keeps it strictly increasing
// within the single UPDATE statement.
const nextUpdatedAt = `updated_at = CASE WHEN ? > updated_at THEN ? ELSE updated_at + 1 END`

// Store is a catalog.Store over a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}
	return New(ctx, db, SQLite)
}

// OpenPostgres connects to PostgreSQL through the pgx database/sql driver.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(ctx, db, Postgres)
}

// New wraps an open database and ensures the products table exists.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect, now: time.Now}
	for _, stmt := range []string{schema, index} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate products: %w", err)
		}
	}
	return s, nil
}

// SetClock replaces the time source used for UpdatedAt.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) List(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM products ORDER BY updated_at DESC, product_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, fields model.ProductFields) (model.Product, error) {
	p := fields.Merge(model.Product{ProductID: catalog.NewProductID()})
	p.UpdatedAt = catalog.NextWriteTime(time.Time{}, s.now())
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO products (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ProductID, p.Name, p.Price, p.Currency, p.Category, p.Status, p.TargetSpecies, p.Description, p.UpdatedAt.UnixMicro())
	if err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Product, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+columns+` FROM products WHERE product_id = ?`), id)
	return s.one(row, "get")
}

func (s *Store) Replace(ctx context.Context, id string, fields model.ProductFields) (model.Product, error) {
	p := fields.Replace(model.Product{ProductID: id})
	now := s.writeTime()
	row := s.db.QueryRowContext(ctx, s.rebind(`UPDATE products SET
		name = ?, price = ?, currency = ?, category = ?, status = ?, target_species = ?, description = ?, `+nextUpdatedAt+`
		WHERE product_id = ? RETURNING `+columns),
		p.Name, p.Price, p.Currency, p.Category, p.Status, p.TargetSpecies, p.Description, now, now, id)
	return s.one(row, "replace")
}

func (s *Store) Merge(ctx context.Context, id string, fields model.ProductFields) (model.Product, error) {
	now := s.writeTime()
	row := s.db.QueryRowContext(ctx, s.rebind(`UPDATE products SET
		name = COALESCE(?, name),
		price = COALESCE(?, price),
		currency = COALESCE(?, currency),
		category = COALESCE(?, category),
		status = COALESCE(?, status),
		target_species = COALESCE(?, target_species),
		description = COALESCE(?, description), `+nextUpdatedAt+`
		WHERE product_id = ? RETURNING `+columns),
		nullString(fields.Name), nullFloat(fields.Price), nullString(fields.Currency), nullString(fields.Category),
		nullString(fields.Status), nullString(fields.TargetSpecies), nullString(fields.Description), now, now, id)
	return s.one(row, "merge")
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM products WHERE product_id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *Store) writeTime() int64 {
	return catalog.NextWriteTime(time.Time{}, s.now()).UnixMicro()
}

func (s *Store) one(row *sql.Row, op string) (model.Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("%s product: %w", op, err)
	}
	return p, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(q string) string {
	if s.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (model.Product, error) {
	var (
		p         model.Product
		updatedAt int64
	)
	if err := sc.Scan(&p.ProductID, &p.Name, &p.Price, &p.Currency, &p.Category, &p.Status,
		&p.TargetSpecies, &p.Description, &updatedAt); err != nil {
		return model.Product{}, err
	}
	p.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
