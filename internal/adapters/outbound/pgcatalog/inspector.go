// Package pgcatalog implements the database inspection and probe ports
// against a live Postgres, reading information_schema and pg_catalog
// views. Each value owns its own pgx pool; callers must Close after
// use and never share an inspector across phases.
package pgcatalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abanremit/readycheck/internal/domain"
)

// Inspector implements domain.DatabaseInspector on a pgx pool.
type Inspector struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var _ domain.DatabaseInspector = (*Inspector)(nil)

// Open connects a new inspector. The connect timeout is applied to the
// dial; the query timeout bounds every subsequent round-trip.
func Open(ctx context.Context, dsn string, connectTimeout, queryTimeout time.Duration) (*Inspector, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	return &Inspector{pool: pool, queryTimeout: queryTimeout}, nil
}

func (i *Inspector) Close() { i.pool.Close() }

func (i *Inspector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, i.queryTimeout)
}

func (i *Inspector) Ping(ctx context.Context) error {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()
	return i.pool.Ping(ctx)
}

func (i *Inspector) ListTables(ctx context.Context, schema string) ([]string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables in %s: %w", schema, err)
	}
	return collectStrings(rows)
}

func (i *Inspector) ListColumns(ctx context.Context, schema, table string) ([]domain.Column, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var cols []domain.Column
	for rows.Next() {
		var col domain.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// UniqueColumns returns every column covered by a unique index, which
// includes declared UNIQUE constraints and primary keys.
func (i *Inspector) UniqueColumns(ctx context.Context, schema, table string) ([]string, error) {
	return i.indexedColumns(ctx, schema, table, true)
}

func (i *Inspector) IndexedColumns(ctx context.Context, schema, table string) ([]string, error) {
	return i.indexedColumns(ctx, schema, table, false)
}

func (i *Inspector) indexedColumns(ctx context.Context, schema, table string, uniqueOnly bool) ([]string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT DISTINCT a.attname
		FROM pg_index ix
		JOIN pg_class c ON c.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1 AND c.relname = $2 AND ($3 = false OR ix.indisunique)
		ORDER BY a.attname`, schema, table, uniqueOnly)
	if err != nil {
		return nil, fmt.Errorf("listing indexes of %s.%s: %w", schema, table, err)
	}
	return collectStrings(rows)
}

func (i *Inspector) TablePrivileges(ctx context.Context, role, schema string) (map[string][]string, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT table_name, privilege_type
		FROM information_schema.role_table_grants
		WHERE grantee = $1 AND table_schema = $2`, role, schema)
	if err != nil {
		return nil, fmt.Errorf("listing grants for %s on %s: %w", role, schema, err)
	}
	defer rows.Close()

	grants := make(map[string][]string)
	for rows.Next() {
		var table, priv string
		if err := rows.Scan(&table, &priv); err != nil {
			return nil, err
		}
		grants[table] = append(grants[table], priv)
	}
	return grants, rows.Err()
}

func (i *Inspector) SystemAccounts(ctx context.Context, codes []string) ([]domain.LedgerAccount, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT code, kind, status
		FROM ledger.accounts
		WHERE code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("reading system accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.LedgerAccount
	for rows.Next() {
		var acct domain.LedgerAccount
		if err := rows.Scan(&acct.Code, &acct.Kind, &acct.Status); err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// TransactionBalances aggregates debit and credit sums per transaction
// group. Sums come back as text so no precision is lost on the way to
// the decimal comparison.
func (i *Inspector) TransactionBalances(ctx context.Context) ([]domain.TransactionBalance, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT t.id::text,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'debit'), 0)::text,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'credit'), 0)::text,
		       COUNT(e.id)
		FROM ledger.transactions t
		LEFT JOIN ledger.entries e ON e.transaction_id = t.id
		GROUP BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("aggregating transaction balances: %w", err)
	}
	defer rows.Close()

	var balances []domain.TransactionBalance
	for rows.Next() {
		var bal domain.TransactionBalance
		if err := rows.Scan(&bal.TransactionID, &bal.DebitSum, &bal.CreditSum, &bal.EntryCount); err != nil {
			return nil, err
		}
		balances = append(balances, bal)
	}
	return balances, rows.Err()
}

func (i *Inspector) OrphanedEntryCount(ctx context.Context) (int64, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	var count int64
	err := i.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM ledger.entries e
		LEFT JOIN ledger.transactions t ON t.id = e.transaction_id
		WHERE t.id IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting orphaned entries: %w", err)
	}
	return count, nil
}

func (i *Inspector) NegativeAmountCount(ctx context.Context) (int64, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	var count int64
	err := i.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger.entries WHERE amount < 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting negative amounts: %w", err)
	}
	return count, nil
}

func (i *Inspector) DuplicateIdempotencyKeys(ctx context.Context) ([]domain.DuplicateKey, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	rows, err := i.pool.Query(ctx, `
		SELECT key, COUNT(*)
		FROM ledger.idempotency_keys
		GROUP BY key
		HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, fmt.Errorf("scanning idempotency keys: %w", err)
	}
	defer rows.Close()

	var dupes []domain.DuplicateKey
	for rows.Next() {
		var d domain.DuplicateKey
		if err := rows.Scan(&d.Key, &d.Count); err != nil {
			return nil, err
		}
		dupes = append(dupes, d)
	}
	return dupes, rows.Err()
}
