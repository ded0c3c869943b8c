package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfrederiksen/keiba-flat/internal/schema"
)

// DefaultTable receives converted rows when no table is configured.
const DefaultTable = "race_results"

// DefaultBatchSize is the number of rows sent per COPY.
const DefaultBatchSize = 5000

// Conn is the subset of a pgx connection or pool the loader needs.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// OpenPostgres creates and validates a connection pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = 2
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PostgresLoader copies rows into a table shaped after a schema. It buffers rows and
// sends them with COPY in batches; Close sends the remainder.
type PostgresLoader struct {
	ctx       context.Context
	conn      Conn
	table     pgx.Identifier
	schema    *schema.Schema
	batch     [][]any
	BatchSize int
	loaded    int64
}

// NewPostgresLoader returns a loader for table, which may be schema-qualified
// ("public.race_results").
func NewPostgresLoader(ctx context.Context, conn Conn, table string, s *schema.Schema) *PostgresLoader {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresLoader{
		ctx:       ctx,
		conn:      conn,
		table:     pgx.Identifier(strings.Split(table, ".")),
		schema:    s,
		BatchSize: DefaultBatchSize,
	}
}

func columnType(k schema.Kind) string {
	switch k {
	case schema.Flag:
		return "smallint"
	case schema.Int:
		return "bigint"
	case schema.Float:
		return "double precision"
	default:
		return "text"
	}
}

// CreateTableSQL returns the DDL for the loader's table. Every column is nullable.
func (l *PostgresLoader) CreateTableSQL() string {
	defs := make([]string, len(l.schema.Columns))
	for i, c := range l.schema.Columns {
		defs[i] = pgx.Identifier{c.Name}.Sanitize() + " " + columnType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", l.table.Sanitize(), strings.Join(defs, ",\n\t"))
}

// EnsureTable creates the table when it does not exist.
func (l *PostgresLoader) EnsureTable() error {
	if _, err := l.conn.Exec(l.ctx, l.CreateTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", l.table.Sanitize(), err)
	}
	return nil
}

// WriteRow buffers one row, flushing when the batch is full.
func (l *PostgresLoader) WriteRow(row schema.Row) error {
	if err := l.schema.Validate(row); err != nil {
		return err
	}

	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v.Interface()
	}
	l.batch = append(l.batch, values)

	if len(l.batch) >= l.BatchSize {
		return l.flush()
	}
	return nil
}

func (l *PostgresLoader) flush() error {
	if len(l.batch) == 0 {
		return nil
	}
	n, err := l.conn.CopyFrom(l.ctx, l.table, l.schema.Header(), pgx.CopyFromRows(l.batch))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", l.table.Sanitize(), err)
	}
	l.loaded += n
	l.batch = l.batch[:0]
	return nil
}

// Close sends any buffered rows.
func (l *PostgresLoader) Close() error {
	return l.flush()
}

// Loaded returns the number of rows the database accepted.
func (l *PostgresLoader) Loaded() int64 {
	return l.loaded
}
