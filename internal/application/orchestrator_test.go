package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abanremit/readycheck/internal/application"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPhase lets tests script a phase's outcome.
type stubPhase struct {
	name   string
	result domain.PhaseResult
	err    error
	panics bool
	calls  int
}

func (s *stubPhase) Name() string { return s.name }

func (s *stubPhase) Execute(context.Context) (domain.PhaseResult, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func passing(name string) *stubPhase {
	return &stubPhase{name: name, result: domain.NewPhaseResult(name, nil, nil)}
}

func failing(name string) *stubPhase {
	return &stubPhase{name: name, result: domain.NewPhaseResult(name,
		[]domain.ValidationError{domain.NewError(name, domain.CodeBackendUnreachable, "down", nil)}, nil)}
}

func TestRunAll_OneResultPerPhase(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(passing("a"))
	orch.Register(failing("b"))
	orch.Register(passing("c"))

	orch.RunAll(context.Background())
	results := orch.Results()

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{results[0].PhaseName, results[1].PhaseName, results[2].PhaseName})
}

func TestRunAll_PanicIsolatedToItsPhase(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(passing("first"))
	orch.Register(&stubPhase{name: "second", panics: true})
	third := passing("third")
	orch.Register(third)

	orch.RunAll(context.Background())
	results := orch.Results()

	require.Len(t, results, 3)
	assert.Equal(t, domain.StatusPass, results[0].Status)
	assert.Equal(t, domain.StatusFail, results[1].Status)
	require.Len(t, results[1].Errors, 1)
	assert.Equal(t, domain.CodePhaseExecutionFailed, results[1].Errors[0].Code)
	assert.Contains(t, results[1].Errors[0].Message, "panicked")
	assert.Equal(t, domain.StatusPass, results[2].Status)
	assert.Equal(t, 1, third.calls, "phase after the panic must still run")
}

func TestRunAll_ErrorReturnBecomesFailResult(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(&stubPhase{name: "db", err: errors.New("connection refused")})

	report := orch.RunAll(context.Background())

	results := orch.Results()
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusFail, results[0].Status)
	assert.Equal(t, domain.CodePhaseExecutionFailed, results[0].Errors[0].Code)
	assert.Contains(t, results[0].Errors[0].Message, "connection refused")
	assert.False(t, report.ProductionReady)
}

func TestRunAll_ClearsPriorResults(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(passing("a"))

	orch.RunAll(context.Background())
	orch.RunAll(context.Background())

	assert.Len(t, orch.Results(), 1)
}

func TestRegister_ReplacementKeepsPosition(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(passing("a"))
	orch.Register(failing("b"))
	orch.Register(passing("c"))
	orch.Register(passing("b")) // replaces the failing b

	assert.Equal(t, []string{"a", "b", "c"}, orch.RegisteredPhases())

	orch.RunAll(context.Background())
	results := orch.Results()
	require.Len(t, results, 3)
	assert.Equal(t, domain.StatusPass, results[1].Status)
}

func TestRunPhase_UpsertsResult(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(failing("a"))
	orch.Register(passing("b"))

	orch.RunAll(context.Background())
	require.False(t, orch.Report().ProductionReady)

	orch.Register(passing("a"))
	res, err := orch.RunPhase(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPass, res.Status)

	// Still two results, the first one replaced in place.
	results := orch.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].PhaseName)
	assert.Equal(t, domain.StatusPass, results[0].Status)
	assert.True(t, orch.Report().ProductionReady)
}

func TestRunPhase_UnknownName(t *testing.T) {
	orch := application.NewOrchestrator()
	_, err := orch.RunPhase(context.Background(), "nope")
	assert.ErrorContains(t, err, `phase not found: "nope"`)
}

func TestReport_ProductionReadyRules(t *testing.T) {
	orch := application.NewOrchestrator()

	// No phases executed: never production-ready.
	assert.False(t, orch.Report().ProductionReady)

	orch.Register(passing("a"))
	orch.RunAll(context.Background())
	assert.True(t, orch.Report().ProductionReady)

	orch.Register(failing("b"))
	orch.RunAll(context.Background())
	report := orch.Report()
	assert.False(t, report.ProductionReady)
	assert.Equal(t, 2, report.Summary.TotalPhases)
	assert.Equal(t, 1, report.Summary.PassedPhases)
	assert.Equal(t, 1, report.Summary.FailedPhases)
}

func TestRunAll_DurationStamped(t *testing.T) {
	orch := application.NewOrchestrator()
	orch.Register(&stubPhase{name: "p", panics: true})

	orch.RunAll(context.Background())
	results := orch.Results()
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Duration.Nanoseconds(), int64(0))
}
