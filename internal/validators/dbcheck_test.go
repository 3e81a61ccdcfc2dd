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

func openStore(store *catalogmem.ProbeStore) func(context.Context) (domain.ProbeStore, error) {
	return func(context.Context) (domain.ProbeStore, error) { return store, nil }
}

func TestDatabaseCheck_HealthyStorePasses(t *testing.T) {
	store := catalogmem.NewProbeStore()
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, res.Status, "errors: %+v", res.Errors)
	assert.Empty(t, store.Rows(), "probe must leave no rows behind")
	assert.True(t, store.Closed)
}

func TestDatabaseCheck_OpenFailure(t *testing.T) {
	v := validators.NewDatabaseCheck(func(context.Context) (domain.ProbeStore, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeDBConnectionFailed, res.Errors[0].Code)
}

func TestDatabaseCheck_PingFailure(t *testing.T) {
	store := catalogmem.NewProbeStore()
	store.PingErr = errors.New("server closed the connection")
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeDBConnectionFailed, res.Errors[0].Code)
	assert.True(t, store.Closed)
}

func TestDatabaseCheck_InsertFailureShortCircuits(t *testing.T) {
	store := catalogmem.NewProbeStore()
	store.FailInsert = true
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeCRUDCreateFailed, res.Errors[0].Code)
}

func TestDatabaseCheck_UpdateFailureReported(t *testing.T) {
	store := catalogmem.NewProbeStore()
	store.FailUpdate = true
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, res.Status)

	codes := make(map[string]bool)
	for _, e := range res.Errors {
		codes[e.Code] = true
	}
	assert.True(t, codes[domain.CodeCRUDUpdateFailed])
	// The probe row is still cleaned up after the failed update.
	assert.Empty(t, store.Rows())
}

func TestDatabaseCheck_DeleteFailureLeavesCleanupToDefer(t *testing.T) {
	store := catalogmem.NewProbeStore()
	store.FailDelete = true
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)

	codes := make(map[string]bool)
	for _, e := range res.Errors {
		codes[e.Code] = true
	}
	assert.True(t, codes[domain.CodeCRUDDeleteFailed])
}

func TestDatabaseCheck_RollbackLeakDetectedAndCleaned(t *testing.T) {
	store := catalogmem.NewProbeStore()
	store.LeakRollback = true
	v := validators.NewDatabaseCheck(openStore(store))

	res, err := v.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, res.Status)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeTransactionRollbackFailed, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "survived")

	// The leaked row was removed by the cleanup pass.
	assert.Empty(t, store.Rows())
}
