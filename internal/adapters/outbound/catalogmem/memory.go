// Package catalogmem is the in-memory implementation of the database
// ports. Tests configure its maps directly; the orchestration core only
// ever sees the port interfaces.
package catalogmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/abanremit/readycheck/internal/domain"
)

type TableKey struct{ Schema, Table string }

// Inspector is an in-memory domain.DatabaseInspector.
type Inspector struct {
	PingErr    error
	Tables     map[string][]string
	Columns    map[TableKey][]domain.Column
	Uniques    map[TableKey][]string
	Indexes    map[TableKey][]string
	Privileges map[string]map[string][]string // schema -> table -> privileges
	Accounts   []domain.LedgerAccount
	Balances   []domain.TransactionBalance
	Orphans    int64
	Negatives  int64
	Duplicates []domain.DuplicateKey

	Closed bool
}

var _ domain.DatabaseInspector = (*Inspector)(nil)

// Key builds a TableKey for populating the per-table maps.
func Key(schema, table string) TableKey { return TableKey{schema, table} }

// NewConforming returns an inspector that satisfies every expectation
// in the given schema contract, with balanced ledger aggregates. Tests
// start from it and break one thing at a time.
func NewConforming(expected domain.SchemaExpectation) *Inspector {
	ins := &Inspector{
		Tables:     make(map[string][]string),
		Columns:    make(map[TableKey][]domain.Column),
		Uniques:    make(map[TableKey][]string),
		Indexes:    make(map[TableKey][]string),
		Privileges: make(map[string]map[string][]string),
	}
	for schema, tables := range expected.Tables {
		ins.Tables[schema] = append([]string(nil), tables...)
		ins.Privileges[schema] = make(map[string][]string)
		for _, table := range tables {
			key := Key(schema, table)
			shape := expected.Shape[schema][table]
			for _, col := range shape.Columns {
				ins.Columns[key] = append(ins.Columns[key], domain.Column{Name: col.Name, Type: col.Type})
			}
			ins.Uniques[key] = append([]string(nil), shape.UniqueColumns...)
			// A unique index also serves lookups.
			ins.Indexes[key] = append(append([]string(nil), shape.IndexedColumns...), shape.UniqueColumns...)
			ins.Privileges[schema][table] = append([]string(nil), domain.ExpectedPrivileges...)
		}
	}
	for _, code := range domain.SystemAccountCodes {
		ins.Accounts = append(ins.Accounts, domain.LedgerAccount{
			Code: code, Kind: domain.SystemAccountKind, Status: domain.SystemAccountActive,
		})
	}
	return ins
}

func (i *Inspector) Ping(context.Context) error { return i.PingErr }
func (i *Inspector) Close()                     { i.Closed = true }

func (i *Inspector) ListTables(_ context.Context, schema string) ([]string, error) {
	return i.Tables[schema], nil
}

func (i *Inspector) ListColumns(_ context.Context, schema, table string) ([]domain.Column, error) {
	return i.Columns[Key(schema, table)], nil
}

func (i *Inspector) UniqueColumns(_ context.Context, schema, table string) ([]string, error) {
	return i.Uniques[Key(schema, table)], nil
}

func (i *Inspector) IndexedColumns(_ context.Context, schema, table string) ([]string, error) {
	return i.Indexes[Key(schema, table)], nil
}

func (i *Inspector) TablePrivileges(_ context.Context, _, schema string) (map[string][]string, error) {
	return i.Privileges[schema], nil
}

func (i *Inspector) SystemAccounts(_ context.Context, codes []string) ([]domain.LedgerAccount, error) {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}
	var out []domain.LedgerAccount
	for _, acct := range i.Accounts {
		if wanted[acct.Code] {
			out = append(out, acct)
		}
	}
	return out, nil
}

func (i *Inspector) TransactionBalances(context.Context) ([]domain.TransactionBalance, error) {
	return i.Balances, nil
}

func (i *Inspector) OrphanedEntryCount(context.Context) (int64, error) { return i.Orphans, nil }

func (i *Inspector) NegativeAmountCount(context.Context) (int64, error) { return i.Negatives, nil }

func (i *Inspector) DuplicateIdempotencyKeys(context.Context) ([]domain.DuplicateKey, error) {
	return i.Duplicates, nil
}

// ProbeStore is an in-memory domain.ProbeStore. Failure flags let tests
// drive each CRUD failure mode without a live database.
type ProbeStore struct {
	mu      sync.Mutex
	rows    map[string]string // id -> marker
	nextID  int
	Closed  bool
	PingErr error

	FailInsert   bool
	FailUpdate   bool
	FailDelete   bool
	LeakRollback bool // rolled-back rows survive, modelling a broken rollback
}

var _ domain.ProbeStore = (*ProbeStore)(nil)

func NewProbeStore() *ProbeStore {
	return &ProbeStore{rows: make(map[string]string)}
}

func (s *ProbeStore) Ping(context.Context) error { return s.PingErr }
func (s *ProbeStore) Close()                     { s.Closed = true }

// Rows returns a snapshot of surviving rows, for leak assertions.
func (s *ProbeStore) Rows() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.rows))
	for k, v := range s.rows {
		out[k] = v
	}
	return out
}

func (s *ProbeStore) Insert(_ context.Context, marker string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert {
		return "", fmt.Errorf("insert refused")
	}
	s.nextID++
	id := fmt.Sprintf("row-%d", s.nextID)
	s.rows[id] = marker
	return id, nil
}

func (s *ProbeStore) Get(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker, ok := s.rows[id]
	if !ok {
		return "", fmt.Errorf("row %s not found", id)
	}
	return marker, nil
}

func (s *ProbeStore) Update(_ context.Context, id, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate {
		return fmt.Errorf("update refused")
	}
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("row %s not found", id)
	}
	s.rows[id] = marker
	return nil
}

func (s *ProbeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete {
		return fmt.Errorf("delete refused")
	}
	delete(s.rows, id)
	return nil
}

func (s *ProbeStore) InsertRolledBack(_ context.Context, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LeakRollback {
		s.nextID++
		s.rows[fmt.Sprintf("row-%d", s.nextID)] = marker
	}
	return nil
}

func (s *ProbeStore) ExistsByMarker(_ context.Context, marker string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if m == marker {
			return true, nil
		}
	}
	return false, nil
}

func (s *ProbeStore) DeleteByMarker(_ context.Context, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.rows {
		if m == marker {
			delete(s.rows, id)
		}
	}
	return nil
}
