package application_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/abanremit/readycheck/internal/application"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport_UnexecutedPhasesProjectedAsWarn(t *testing.T) {
	report := application.GenerateReport(nil, nil)

	require.Len(t, report.Phases, len(domain.PhaseKeys))
	for _, pk := range domain.PhaseKeys {
		status := report.Phases[pk.Key]
		assert.Equal(t, "WARN", status.Status, "key %s", pk.Key)
		assert.Equal(t, "Phase not executed", status.Message)
	}
	assert.False(t, report.ProductionReady)
	assert.Equal(t, 0, report.Summary.TotalPhases)
}

func TestGenerateReport_ProjectsExecutedPhases(t *testing.T) {
	results := []domain.PhaseResult{
		domain.NewPhaseResult(domain.PhaseSecurity, nil, nil),
		domain.NewPhaseResult(domain.PhaseHealth,
			[]domain.ValidationError{domain.NewError(domain.PhaseHealth, domain.CodeHealthUnreachable, "no health endpoint", nil)}, nil),
		domain.NewPhaseResult(domain.PhaseRealtime, nil,
			[]domain.ValidationWarning{{Phase: domain.PhaseRealtime, Message: "no websocket endpoint"}}),
	}

	report := application.GenerateReport(results, nil)

	assert.Equal(t, "OK", report.Phases[domain.PhaseKeySecurity].Status)
	assert.Equal(t, "FAIL", report.Phases[domain.PhaseKeyHealth].Status)
	assert.Equal(t, "no health endpoint", report.Phases[domain.PhaseKeyHealth].Message)
	assert.Equal(t, "WARN", report.Phases[domain.PhaseKeyRealtime].Status)
	assert.Equal(t, "no websocket endpoint", report.Phases[domain.PhaseKeyRealtime].Message)

	assert.Equal(t, 3, report.Summary.TotalPhases)
	assert.Equal(t, 1, report.Summary.PassedPhases)
	assert.Equal(t, 1, report.Summary.FailedPhases)
	assert.Equal(t, 1, report.Summary.Warnings)
	assert.False(t, report.ProductionReady)
	assert.Len(t, report.Errors, 1)
	assert.Len(t, report.Warnings, 1)
}

func TestGenerateReport_ToleratesStatusWithoutFindings(t *testing.T) {
	results := []domain.PhaseResult{
		{PhaseName: domain.PhaseSecurity, Status: domain.StatusFail},
		{PhaseName: domain.PhaseRealtime, Status: domain.StatusWarn},
	}

	report := application.GenerateReport(results, nil)

	assert.Equal(t, "FAIL", report.Phases[domain.PhaseKeySecurity].Status)
	assert.Equal(t, "Phase failed", report.Phases[domain.PhaseKeySecurity].Message)
	assert.Equal(t, "WARN", report.Phases[domain.PhaseKeyRealtime].Status)
	assert.Equal(t, "Phase reported warnings", report.Phases[domain.PhaseKeyRealtime].Message)
}

func TestGenerateReport_HarvestsMissingPages(t *testing.T) {
	results := []domain.PhaseResult{
		domain.NewPhaseResult(domain.PhasePages, []domain.ValidationError{
			domain.NewError(domain.PhasePages, domain.CodeMissingPages, "user dashboard incomplete",
				domain.MissingPagesDetail{Dashboard: domain.DashboardUser, MissingRoutes: []string{"/kyc", "/support"}}),
			domain.NewError(domain.PhasePages, domain.CodeMissingPages, "admin dashboard incomplete",
				&domain.MissingPagesDetail{Dashboard: domain.DashboardAdmin, MissingRoutes: []string{"/admin/audit-logs"}}),
		}, nil),
	}

	report := application.GenerateReport(results, nil)
	assert.Equal(t, []string{"/kyc", "/support", "/admin/audit-logs"}, report.MissingPages)
}

func TestGenerateReport_HarvestsMissingPagesFromJSONShape(t *testing.T) {
	// Details that went through a JSON round trip arrive as generic maps.
	results := []domain.PhaseResult{
		domain.NewPhaseResult(domain.PhasePages, []domain.ValidationError{
			domain.NewError(domain.PhasePages, domain.CodeMissingPages, "incomplete",
				map[string]any{"dashboard": "user", "missingRoutes": []any{"/kyc"}}),
		}, nil),
	}

	report := application.GenerateReport(results, nil)
	assert.Equal(t, []string{"/kyc"}, report.MissingPages)
}

func TestGenerateReport_AttachesAutoFixChanges(t *testing.T) {
	changes := []domain.AutoFixChange{
		{Type: domain.ChangeCreateFile, Path: "pages/kyc.tsx", Description: "Created user page for route /kyc"},
	}
	report := application.GenerateReport(nil, changes)
	assert.Equal(t, changes, report.AutoFixChanges)
}

func TestSaveReport_WritesIndentedJSON(t *testing.T) {
	report := application.GenerateReport([]domain.PhaseResult{
		domain.NewPhaseResult(domain.PhaseSecurity, nil, nil),
	}, nil)

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, application.SaveReport(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded domain.ValidationReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.ProductionReady)
	assert.Equal(t, "OK", decoded.Phases[domain.PhaseKeySecurity].Status)
}
