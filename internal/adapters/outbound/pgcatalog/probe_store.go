package pgcatalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abanremit/readycheck/internal/domain"
)

// ProbeStore implements domain.ProbeStore against app.sms_logs. SMS
// logs are operational data with no financial meaning, which makes
// them the safest table to exercise writes on.
type ProbeStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var _ domain.ProbeStore = (*ProbeStore)(nil)

const probePhone = "+10000000000"

// OpenProbeStore connects a new probe store with its own pool.
func OpenProbeStore(ctx context.Context, dsn string, connectTimeout, queryTimeout time.Duration) (*ProbeStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	return &ProbeStore{pool: pool, queryTimeout: queryTimeout}, nil
}

func (s *ProbeStore) Close() { s.pool.Close() }

func (s *ProbeStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *ProbeStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *ProbeStore) Insert(ctx context.Context, marker string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO app.sms_logs (id, phone, body, status, created_at)
		VALUES (gen_random_uuid(), $1, $2, 'probe', now())
		RETURNING id::text`, probePhone, marker).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting probe row: %w", err)
	}
	return id, nil
}

func (s *ProbeStore) Get(ctx context.Context, id string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var marker string
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM app.sms_logs WHERE id = $1::uuid`, id).Scan(&marker)
	if err != nil {
		return "", fmt.Errorf("reading probe row %s: %w", id, err)
	}
	return marker, nil
}

func (s *ProbeStore) Update(ctx context.Context, id, marker string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`UPDATE app.sms_logs SET body = $2 WHERE id = $1::uuid`, id, marker)
	if err != nil {
		return fmt.Errorf("updating probe row %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("probe row %s vanished before update", id)
	}
	return nil
}

func (s *ProbeStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM app.sms_logs WHERE id = $1::uuid`, id); err != nil {
		return fmt.Errorf("deleting probe row %s: %w", id, err)
	}
	return nil
}

// InsertRolledBack inserts a probe row inside an explicitly rolled-back
// transaction. The caller verifies the row did not survive.
func (s *ProbeStore) InsertRolledBack(ctx context.Context, marker string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning probe transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO app.sms_logs (id, phone, body, status, created_at)
		VALUES (gen_random_uuid(), $1, $2, 'probe', now())`, probePhone, marker)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("inserting inside probe transaction: %w", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		return fmt.Errorf("rolling back probe transaction: %w", err)
	}
	return nil
}

func (s *ProbeStore) ExistsByMarker(ctx context.Context, marker string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app.sms_logs WHERE body = $1)`, marker).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking probe marker: %w", err)
	}
	return exists, nil
}

func (s *ProbeStore) DeleteByMarker(ctx context.Context, marker string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM app.sms_logs WHERE body = $1`, marker); err != nil {
		return fmt.Errorf("deleting probe rows by marker: %w", err)
	}
	return nil
}
