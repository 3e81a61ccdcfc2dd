package domain

import "strings"

// ExpectedColumn pairs a column name with its expected canonical type.
type ExpectedColumn struct {
	Name string
	Type string
}

// TableExpectation describes one table's structural contract: columns
// that must exist, columns that must be unique, columns that must be
// covered by an index.
type TableExpectation struct {
	Columns        []ExpectedColumn
	UniqueColumns  []string
	IndexedColumns []string
}

// SchemaExpectation maps schema name to ordered table list plus
// per-table contracts. This is the static contract the introspection
// validators diff the live catalog against.
type SchemaExpectation struct {
	Tables map[string][]string                    // schema -> ordered table names
	Shape  map[string]map[string]TableExpectation // schema -> table -> contract
}

// SystemAccountCodes are the ledger accounts that must exist, be of
// kind "system" and be active before a deployment is production-ready.
var SystemAccountCodes = []string{"SYS-CASH", "SYS-FEES", "SYS-FLOAT", "SYS-FX"}

const (
	SystemAccountKind   = "system"
	SystemAccountActive = "active"
)

// ExpectedPrivileges is the exact CRUD grant set the application role
// must hold on every application schema.
var ExpectedPrivileges = []string{"SELECT", "INSERT", "UPDATE", "DELETE"}

// ForbiddenPrivileges must not be granted to the application role.
var ForbiddenPrivileges = []string{"TRUNCATE"}

// ExpectedSchema is the structural contract of the remittance database.
func ExpectedSchema() SchemaExpectation {
	return SchemaExpectation{
		Tables: map[string][]string{
			"app":    {"users", "sessions", "sms_logs", "kyc_documents"},
			"wallet": {"wallets", "wallet_transactions"},
			"ledger": {"accounts", "transactions", "entries", "idempotency_keys"},
		},
		Shape: map[string]map[string]TableExpectation{
			"app": {
				"users": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"email", "varchar"},
						{"phone", "varchar"},
						{"password_hash", "text"},
						{"role", "varchar"},
						{"status", "varchar"},
						{"created_at", "timestamptz"},
					},
					UniqueColumns: []string{"email", "phone"},
				},
				"sessions": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"user_id", "uuid"},
						{"token_hash", "text"},
						{"expires_at", "timestamptz"},
					},
					IndexedColumns: []string{"token_hash"},
				},
				"sms_logs": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"phone", "varchar"},
						{"body", "text"},
						{"status", "varchar"},
						{"created_at", "timestamptz"},
					},
				},
				"kyc_documents": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"user_id", "uuid"},
						{"kind", "varchar"},
						{"status", "varchar"},
					},
				},
			},
			"wallet": {
				"wallets": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"user_id", "uuid"},
						{"currency", "varchar"},
						{"balance", "numeric"},
						{"status", "varchar"},
						{"created_at", "timestamptz"},
					},
					IndexedColumns: []string{"user_id"},
				},
				"wallet_transactions": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"wallet_id", "uuid"},
						{"amount", "numeric"},
						{"kind", "varchar"},
						{"idempotency_key", "varchar"},
						{"created_at", "timestamptz"},
					},
					UniqueColumns: []string{"idempotency_key"},
				},
			},
			"ledger": {
				"accounts": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"code", "varchar"},
						{"name", "varchar"},
						{"kind", "varchar"},
						{"status", "varchar"},
					},
					UniqueColumns: []string{"code"},
				},
				"transactions": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"reference", "varchar"},
						{"state", "varchar"},
						{"created_at", "timestamptz"},
					},
					IndexedColumns: []string{"created_at"},
				},
				"entries": {
					Columns: []ExpectedColumn{
						{"id", "uuid"},
						{"transaction_id", "uuid"},
						{"account_id", "uuid"},
						{"direction", "varchar"},
						{"amount", "numeric"},
					},
					IndexedColumns: []string{"transaction_id", "account_id"},
				},
				"idempotency_keys": {
					Columns: []ExpectedColumn{
						{"key", "varchar"},
						{"request_hash", "text"},
						{"response_code", "int"},
						{"created_at", "timestamptz"},
					},
					UniqueColumns: []string{"key"},
				},
			},
		},
	}
}

// NormalizeType collapses dialect-specific type spellings to the
// canonical names used in ExpectedSchema.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	// Strip length/precision qualifiers: varchar(255), numeric(18,2).
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "character varying":
		return "varchar"
	case "character", "bpchar":
		return "char"
	case "timestamp with time zone", "timestamptz":
		return "timestamptz"
	case "timestamp without time zone", "timestamp":
		return "timestamp"
	case "integer", "int4":
		return "int"
	case "bigint", "int8":
		return "bigint"
	case "smallint", "int2":
		return "smallint"
	case "boolean", "bool":
		return "bool"
	case "double precision", "float8":
		return "double"
	case "real", "float4":
		return "real"
	case "decimal":
		return "numeric"
	default:
		return t
	}
}

// TypesCompatible reports whether a live column type satisfies the
// expected canonical type.
func TypesCompatible(expected, actual string) bool {
	return NormalizeType(expected) == NormalizeType(actual)
}
