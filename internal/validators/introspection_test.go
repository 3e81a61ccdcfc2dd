package validators_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abanremit/readycheck/internal/adapters/outbound/catalogmem"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/abanremit/readycheck/internal/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRole = "remit_app"

func openInspector(ins *catalogmem.Inspector) func(context.Context) (domain.DatabaseInspector, error) {
	return func(context.Context) (domain.DatabaseInspector, error) { return ins, nil }
}

// errorCodes collects the distinct error codes of a result.
func errorCodes(res domain.PhaseResult) map[string]bool {
	codes := make(map[string]bool)
	for _, e := range res.Errors {
		codes[e.Code] = true
	}
	return codes
}

func TestIntrospection_ConformingDatabasePasses(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	v := validators.NewIntrospection(openInspector(ins), testRole)

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, res.Status, "errors: %+v", res.Errors)
	assert.True(t, ins.Closed)
}

func TestIntrospection_ConnectionFailure(t *testing.T) {
	v := validators.NewIntrospection(func(context.Context) (domain.DatabaseInspector, error) {
		return nil, errors.New("dial tcp: connection refused")
	}, testRole)

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeDBConnectionFailed, res.Errors[0].Code)
}

func TestIntrospection_PingFailure(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.PingErr = errors.New("no response")
	v := validators.NewIntrospection(openInspector(ins), testRole)

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeDBConnectionFailed, res.Errors[0].Code)
	assert.True(t, ins.Closed)
}

func TestIntrospection_MissingTable(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Tables["ledger"] = []string{"accounts", "transactions", "entries"} // idempotency_keys dropped

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodeSchemaValidationFailed])
}

func TestIntrospection_ColumnTypeMismatch(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	key := catalogmem.Key("ledger", "entries")
	for i, col := range ins.Columns[key] {
		if col.Name == "amount" {
			ins.Columns[key][i].Type = "text"
		}
	}

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodeSchemaValidationFailed])
}

func TestIntrospection_NormalizedTypesAccepted(t *testing.T) {
	// Dialect spellings of the expected types must not be flagged.
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	key := catalogmem.Key("app", "users")
	for i, col := range ins.Columns[key] {
		switch col.Type {
		case "varchar":
			ins.Columns[key][i].Type = "character varying(255)"
		case "timestamptz":
			ins.Columns[key][i].Type = "timestamp with time zone"
		}
	}

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, res.Status, "errors: %+v", res.Errors)
}

func TestIntrospection_MissingUniqueConstraint(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Uniques[catalogmem.Key("app", "users")] = []string{"email"} // phone dropped

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodeConstraintMissing])
}

func TestIntrospection_MissingIndex(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Indexes[catalogmem.Key("wallet", "wallets")] = nil

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodeIndexMissing])
}

func TestIntrospection_IdempotencyConstraintMissing(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Uniques[catalogmem.Key("wallet", "wallet_transactions")] = nil

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)

	codes := errorCodes(res)
	// Dropping the unique constraint trips both the schema contract and
	// the idempotency guard.
	assert.True(t, codes[domain.CodeConstraintMissing])
	assert.True(t, codes[domain.CodeIdempotencyViolation])
}

func TestIntrospection_DuplicateIdempotencyKeys(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Duplicates = []domain.DuplicateKey{{Key: "req-42", Count: 2}}

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodeIdempotencyViolation])
}

func TestIntrospection_PrivilegeViolations(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	// DELETE revoked on one table, TRUNCATE granted on another.
	ins.Privileges["app"]["users"] = []string{"SELECT", "INSERT", "UPDATE"}
	ins.Privileges["ledger"]["entries"] = append(ins.Privileges["ledger"]["entries"], "TRUNCATE")

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, errorCodes(res)[domain.CodePrivilegeMismatch])

	var messages []string
	for _, e := range res.Errors {
		if e.Code == domain.CodePrivilegeMismatch {
			messages = append(messages, e.Message)
		}
	}
	require.Len(t, messages, 2, "one finding per schema")
}

func TestIntrospection_OneRunSurfacesAllViolations(t *testing.T) {
	ins := catalogmem.NewConforming(domain.ExpectedSchema())
	ins.Tables["app"] = []string{"users"}
	ins.Orphans = 3
	ins.Privileges["wallet"]["wallets"] = nil

	v := validators.NewIntrospection(openInspector(ins), testRole)
	res, err := v.Execute(context.Background())
	require.NoError(t, err)

	codes := errorCodes(res)
	assert.True(t, codes[domain.CodeSchemaValidationFailed])
	assert.True(t, codes[domain.CodeOrphanedEntries])
	assert.True(t, codes[domain.CodePrivilegeMismatch])
}
