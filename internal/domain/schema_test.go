package domain_test

import (
	"testing"

	"github.com/abanremit/readycheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"character varying", "varchar"},
		{"character varying(255)", "varchar"},
		{"VARCHAR(64)", "varchar"},
		{"timestamp with time zone", "timestamptz"},
		{"timestamp without time zone", "timestamp"},
		{"integer", "int"},
		{"int4", "int"},
		{"bigint", "bigint"},
		{"numeric(18,2)", "numeric"},
		{"decimal", "numeric"},
		{"boolean", "bool"},
		{"double precision", "double"},
		{"uuid", "uuid"},
		{"  TEXT ", "text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeType(tt.in), "input %q", tt.in)
	}
}

func TestTypesCompatible(t *testing.T) {
	assert.True(t, domain.TypesCompatible("varchar", "character varying(128)"))
	assert.True(t, domain.TypesCompatible("timestamptz", "timestamp with time zone"))
	assert.True(t, domain.TypesCompatible("numeric", "numeric(18,2)"))
	assert.False(t, domain.TypesCompatible("uuid", "text"))
	assert.False(t, domain.TypesCompatible("timestamptz", "timestamp"))
}

func TestExpectedSchema_ShapeCoversEveryTable(t *testing.T) {
	expected := domain.ExpectedSchema()
	for schema, tables := range expected.Tables {
		shape, ok := expected.Shape[schema]
		require.True(t, ok, "schema %s has no shape", schema)
		for _, table := range tables {
			exp, ok := shape[table]
			require.True(t, ok, "%s.%s has no shape", schema, table)
			assert.NotEmpty(t, exp.Columns, "%s.%s has no columns", schema, table)
		}
	}
}

func TestExpectedSchema_IdempotencyGuards(t *testing.T) {
	expected := domain.ExpectedSchema()
	assert.Contains(t, expected.Shape["ledger"]["idempotency_keys"].UniqueColumns, "key")
	assert.Contains(t, expected.Shape["wallet"]["wallet_transactions"].UniqueColumns, "idempotency_key")
}

func TestSystemAccountCodes(t *testing.T) {
	assert.Equal(t, []string{"SYS-CASH", "SYS-FEES", "SYS-FLOAT", "SYS-FX"}, domain.SystemAccountCodes)
}
