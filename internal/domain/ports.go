package domain

import "context"

// Phase is one named, independently executable unit of audit logic.
// Execute returns its findings as a PhaseResult; a non-nil error (or a
// panic) is reserved for genuinely unexpected conditions and is folded
// into a PHASE_EXECUTION_FAILED result at the orchestrator boundary.
type Phase interface {
	Name() string
	Execute(ctx context.Context) (PhaseResult, error)
}

// Column is a live column as reported by the database catalog.
type Column struct {
	Name string
	Type string
}

// LedgerAccount is a live system account row.
type LedgerAccount struct {
	Code   string
	Kind   string
	Status string
}

// TransactionBalance is the per-transaction debit/credit aggregate used
// by the double-entry check.
type TransactionBalance struct {
	TransactionID string
	DebitSum      string // exact decimal strings; never floats
	CreditSum     string
	EntryCount    int
}

// DuplicateKey is an idempotency key that appears more than once.
type DuplicateKey struct {
	Key   string
	Count int
}

// CatalogInspector reads structural metadata from the live database.
// Implementations own their connection pool; Close must be called after
// use and pools are never shared across validators.
type CatalogInspector interface {
	Ping(ctx context.Context) error
	ListTables(ctx context.Context, schema string) ([]string, error)
	ListColumns(ctx context.Context, schema, table string) ([]Column, error)
	UniqueColumns(ctx context.Context, schema, table string) ([]string, error)
	IndexedColumns(ctx context.Context, schema, table string) ([]string, error)
	TablePrivileges(ctx context.Context, role, schema string) (map[string][]string, error)
	Close()
}

// LedgerInspector reads ledger integrity aggregates from the live
// database.
type LedgerInspector interface {
	SystemAccounts(ctx context.Context, codes []string) ([]LedgerAccount, error)
	TransactionBalances(ctx context.Context) ([]TransactionBalance, error)
	OrphanedEntryCount(ctx context.Context) (int64, error)
	NegativeAmountCount(ctx context.Context) (int64, error)
	DuplicateIdempotencyKeys(ctx context.Context) ([]DuplicateKey, error)
}

// DatabaseInspector is the full read surface the introspection phase
// needs. Implementations own one connection pool for both halves.
type DatabaseInspector interface {
	CatalogInspector
	LedgerInspector
}

// ProbeStore is the write surface for the database CRUD/transaction
// phase. Rows are identified by a caller-supplied marker so leaked test
// data stays findable.
type ProbeStore interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, marker string) (id string, err error)
	Get(ctx context.Context, id string) (marker string, err error)
	Update(ctx context.Context, id, marker string) error
	Delete(ctx context.Context, id string) error
	// InsertRolledBack inserts a row inside a transaction that is then
	// rolled back. The row must not survive.
	InsertRolledBack(ctx context.Context, marker string) error
	ExistsByMarker(ctx context.Context, marker string) (bool, error)
	DeleteByMarker(ctx context.Context, marker string) error
	Close()
}

// ProbeResponse is the subset of an HTTP response the validators
// inspect.
type ProbeResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// HTTPProber issues outbound HTTP probes. Every call carries the fixed
// probe timeout configured at construction.
type HTTPProber interface {
	Get(ctx context.Context, url string, headers map[string]string) (ProbeResponse, error)
	PostJSON(ctx context.Context, url string, body any, headers map[string]string) (ProbeResponse, error)
}

// ConfigLoader loads the run configuration for a directory.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}

// GitInfo reads revision metadata from a deployment work tree.
type GitInfo interface {
	IsGitRepo(dir string) bool
	CommitHash(dir string) (string, error)
}
