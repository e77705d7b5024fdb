package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// PostgresProductStore keeps each record as a jsonb document keyed by id.
//
//	CREATE TABLE products (id TEXT PRIMARY KEY, attributes JSONB NOT NULL)
type PostgresProductStore struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

func NewPostgresProductStore(db *sql.DB, table string, timeout time.Duration) *PostgresProductStore {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PostgresProductStore{
		db:      db,
		table:   pgx.Identifier{table}.Sanitize(),
		timeout: timeout,
	}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (r *PostgresProductStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + r.table + ` (id TEXT PRIMARY KEY, attributes JSONB NOT NULL)`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query)
	return wrapErr("postgres", "ensure schema", err)
}

func (r *PostgresProductStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	query := `SELECT attributes FROM ` + r.table + ` ORDER BY id`
	return r.query(ctx, query)
}

func (r *PostgresProductStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	if f.Empty() {
		return nil, wrapErr("postgres", "scan", ErrEmptyFilter)
	}

	conditions, args, err := filterConditions(f)
	if err != nil {
		return nil, wrapErr("postgres", "scan", err)
	}

	query := `SELECT attributes FROM ` + r.table + ` WHERE 1=1`
	query += conditions
	query += " ORDER BY id"

	return r.query(ctx, query, args...)
}

func (r *PostgresProductStore) query(ctx context.Context, query string, args ...any) ([]models.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("postgres", "scan", err)
	}
	defer rows.Close()

	records := []models.RawRecord{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, wrapErr("postgres", "scan", err)
		}
		rec, err := decodeJSONRecord(doc)
		if err != nil {
			return nil, wrapErr("postgres", "scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("postgres", "scan", err)
	}
	return records, nil
}

func (r *PostgresProductStore) Put(ctx context.Context, key string, record models.RawRecord) error {
	doc, err := encodeJSONRecord(record)
	if err != nil {
		return wrapErr("postgres", "put", err)
	}

	query := `INSERT INTO ` + r.table + ` (id, attributes) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE SET attributes = EXCLUDED.attributes`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.db.ExecContext(ctx, query, key, string(doc))
	return wrapErr("postgres", "put", err)
}

// filterConditions renders f as " AND ..." clauses with positional
// placeholders. Kind checks keep a string price from matching, or from
// breaking the numeric cast.
func filterConditions(f Filter) (string, []any, error) {
	query := ""
	argIdx := 1
	args := []any{}

	for _, c := range f.Conditions {
		attr := fmt.Sprintf("attributes->'%s'", quoteLiteral(c.Attribute))
		text := fmt.Sprintf("attributes->>'%s'", quoteLiteral(c.Attribute))

		switch c.Op {
		case OpEquals:
			query += fmt.Sprintf(" AND jsonb_typeof(%s) = 'string' AND %s = $%d", attr, text, argIdx)
		case OpContains:
			query += fmt.Sprintf(" AND jsonb_typeof(%s) = 'string' AND strpos(%s, $%d) > 0", attr, text, argIdx)
		case OpGTE, OpLTE:
			query += fmt.Sprintf(" AND (CASE WHEN jsonb_typeof(%s) = 'number' THEN (%s)::numeric END) %s $%d::numeric",
				attr, text, c.Op, argIdx)
		default:
			return "", nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
		args = append(args, c.Operand())
		argIdx++
	}

	return query, args, nil
}

func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
