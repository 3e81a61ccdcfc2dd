package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abanremit/readycheck/internal/domain"
)

// Orchestrator registers audit phases and executes them sequentially,
// isolating each phase's failures from its siblings. Sequential
// execution is deliberate: several phases own database connection pools
// and interleaving pool lifecycles would risk connection exhaustion
// against the audited database.
type Orchestrator struct {
	order   []string
	phases  map[string]domain.Phase
	results []domain.PhaseResult
	changes []domain.AutoFixChange
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{phases: make(map[string]domain.Phase)}
}

// Register stores a phase by name. Re-registering an existing name
// replaces the prior entry but keeps its original position in the
// execution order.
func (o *Orchestrator) Register(p domain.Phase) {
	name := p.Name()
	if _, seen := o.phases[name]; !seen {
		o.order = append(o.order, name)
	}
	o.phases[name] = p
}

// RunAll clears prior results, executes every registered phase in
// registration order and returns the aggregated report. A phase that
// errors or panics yields a FAIL result; it never aborts the run.
func (o *Orchestrator) RunAll(ctx context.Context) *domain.ValidationReport {
	o.results = o.results[:0]
	for _, name := range o.order {
		o.results = append(o.results, o.executeIsolated(ctx, o.phases[name]))
	}
	return o.Report()
}

// RunPhase executes a single registered phase and upserts its result,
// replacing any prior result for that name.
func (o *Orchestrator) RunPhase(ctx context.Context, name string) (domain.PhaseResult, error) {
	p, ok := o.phases[name]
	if !ok {
		return domain.PhaseResult{}, fmt.Errorf("phase not found: %q", name)
	}

	res := o.executeIsolated(ctx, p)
	for i, prior := range o.results {
		if prior.PhaseName == name {
			o.results[i] = res
			return res, nil
		}
	}
	o.results = append(o.results, res)
	return res, nil
}

// executeIsolated is the fault-isolation boundary: the one place a
// phase's error or panic is converted into a FAIL result. Duration is
// stamped on every path.
func (o *Orchestrator) executeIsolated(ctx context.Context, p domain.Phase) (result domain.PhaseResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = executionFailure(p.Name(), fmt.Sprintf("phase panicked: %v", r), r)
		}
		result.Duration = time.Since(start)
	}()

	res, err := p.Execute(ctx)
	if err != nil {
		return executionFailure(p.Name(), fmt.Sprintf("phase execution failed: %v", err), err.Error())
	}
	res.PhaseName = p.Name()
	return res
}

func executionFailure(phase, message string, details any) domain.PhaseResult {
	return domain.NewPhaseResult(phase, []domain.ValidationError{
		domain.NewError(phase, domain.CodePhaseExecutionFailed, message, details),
	}, nil)
}

// SetAutoFixChanges attaches the auto-fix change log to subsequent
// report generations.
func (o *Orchestrator) SetAutoFixChanges(changes []domain.AutoFixChange) {
	o.changes = changes
}

// Report derives a fresh ValidationReport from the current result set.
// With zero results it reports not production-ready.
func (o *Orchestrator) Report() *domain.ValidationReport {
	return GenerateReport(o.results, o.changes)
}

// ClearResults drops all accumulated results.
func (o *Orchestrator) ClearResults() {
	o.results = nil
}

// RegisteredPhases returns phase names in registration order.
func (o *Orchestrator) RegisteredPhases() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Results returns a copy of the current result list.
func (o *Orchestrator) Results() []domain.PhaseResult {
	out := make([]domain.PhaseResult, len(o.results))
	copy(out, o.results)
	return out
}
