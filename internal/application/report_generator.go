package application

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abanremit/readycheck/internal/domain"
)

// GenerateReport derives a ValidationReport from a raw result set. It
// is a pure function of its inputs: it never mutates the results and
// needs no orchestrator instance, so ad-hoc harnesses can reuse it.
func GenerateReport(results []domain.PhaseResult, changes []domain.AutoFixChange) *domain.ValidationReport {
	report := &domain.ValidationReport{
		Timestamp:      time.Now(),
		Phases:         make(map[string]domain.PhaseStatus, len(domain.PhaseKeys)),
		MissingPages:   []string{},
		Errors:         []domain.ValidationError{},
		Warnings:       []domain.ValidationWarning{},
		AutoFixChanges: changes,
	}

	byName := make(map[string]domain.PhaseResult, len(results))
	for _, res := range results {
		byName[res.PhaseName] = res

		report.Summary.TotalPhases++
		switch res.Status {
		case domain.StatusPass:
			report.Summary.PassedPhases++
		case domain.StatusFail:
			report.Summary.FailedPhases++
		}
		report.Summary.Warnings += len(res.Warnings)

		report.Errors = append(report.Errors, res.Errors...)
		report.Warnings = append(report.Warnings, res.Warnings...)

		if res.PhaseName == domain.PhasePages {
			report.MissingPages = append(report.MissingPages, missingPagesOf(res)...)
		}
	}

	// Every known phase key is present; phases never executed are
	// projected as WARN so the report shape stays total.
	for _, pk := range domain.PhaseKeys {
		res, ok := byName[pk.Name]
		if !ok {
			report.Phases[pk.Key] = domain.PhaseStatus{Status: "WARN", Message: "Phase not executed"}
			continue
		}
		report.Phases[pk.Key] = projectPhase(res)
	}

	report.ProductionReady = report.Summary.FailedPhases == 0 && report.Summary.TotalPhases > 0
	return report
}

func projectPhase(res domain.PhaseResult) domain.PhaseStatus {
	status := domain.PhaseStatus{
		Details: map[string]any{"duration_ms": res.Duration.Milliseconds()},
	}
	switch res.Status {
	case domain.StatusFail:
		status.Status = "FAIL"
		status.Message = "Phase failed"
		// A hand-built result can carry a FAIL status with no errors.
		if len(res.Errors) > 0 {
			status.Message = res.Errors[0].Message
		}
	case domain.StatusWarn:
		status.Status = "WARN"
		status.Message = "Phase reported warnings"
		if len(res.Warnings) > 0 {
			status.Message = res.Warnings[0].Message
		}
	default:
		status.Status = "OK"
		status.Message = "OK"
	}
	return status
}

// missingPagesOf harvests missing routes from every page-completeness
// error, tolerating both the in-process detail struct and the generic
// map shape a JSON round-trip produces.
func missingPagesOf(res domain.PhaseResult) []string {
	var missing []string
	for _, e := range res.Errors {
		switch d := e.Details.(type) {
		case domain.MissingPagesDetail:
			missing = append(missing, d.MissingRoutes...)
		case *domain.MissingPagesDetail:
			missing = append(missing, d.MissingRoutes...)
		case map[string]any:
			if routes, ok := d["missingRoutes"].([]any); ok {
				for _, r := range routes {
					if s, ok := r.(string); ok {
						missing = append(missing, s)
					}
				}
			}
		}
	}
	return missing
}

// SaveReport writes the report as indented JSON, creating parent
// directories as needed.
func SaveReport(report *domain.ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
