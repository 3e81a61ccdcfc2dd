package domain

import "time"

// Report phase keys. The report always carries every key; a phase that
// never executed is projected as WARN rather than omitted, so consumers
// can rely on a total schema.
const (
	PhaseKeyFrontendBackend = "frontendBackend"
	PhaseKeyDatabase        = "database"
	PhaseKeyRealtime        = "realtime"
	PhaseKeySecurity        = "security"
	PhaseKeyHealth          = "health"
	PhaseKeyPages           = "pages"
	PhaseKeyIntrospection   = "introspection"
)

// Canonical phase names, as registered with the orchestrator.
const (
	PhaseFrontendBackend = "Frontend-Backend Connection"
	PhaseDatabase        = "Database Operations"
	PhaseRealtime        = "Real-time Features"
	PhaseSecurity        = "Security"
	PhaseHealth          = "Health Endpoint"
	PhasePages           = "Page Completeness"
	PhaseIntrospection   = "Production Readiness"
)

// PhaseKeys maps a report key to its phase name, in report order.
var PhaseKeys = []struct {
	Key  string
	Name string
}{
	{PhaseKeyFrontendBackend, PhaseFrontendBackend},
	{PhaseKeyDatabase, PhaseDatabase},
	{PhaseKeyRealtime, PhaseRealtime},
	{PhaseKeySecurity, PhaseSecurity},
	{PhaseKeyHealth, PhaseHealth},
	{PhaseKeyPages, PhasePages},
	{PhaseKeyIntrospection, PhaseIntrospection},
}

// PhaseStatus is the per-phase projection embedded in a ValidationReport.
type PhaseStatus struct {
	Status  string `json:"status"` // OK, FAIL or WARN
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ReportSummary holds the aggregate counts for a run.
type ReportSummary struct {
	TotalPhases  int `json:"total_phases"`
	PassedPhases int `json:"passed_phases"`
	FailedPhases int `json:"failed_phases"`
	Warnings     int `json:"warnings"`
}

// ValidationReport is the final audit artifact. It is derived fresh from
// a result set on every generation and never partially mutated.
type ValidationReport struct {
	Timestamp       time.Time              `json:"timestamp"`
	CommitHash      string                 `json:"commit_hash,omitempty"`
	ProductionReady bool                   `json:"production_ready"`
	Summary         ReportSummary          `json:"summary"`
	Phases          map[string]PhaseStatus `json:"phases"`
	MissingPages    []string               `json:"missing_pages"`
	Errors          []ValidationError      `json:"errors"`
	Warnings        []ValidationWarning    `json:"warnings"`
	AutoFixChanges  []AutoFixChange        `json:"auto_fix_changes,omitempty"`
}

// AutoFixChangeType classifies an auto-fix change-log entry.
type AutoFixChangeType string

const (
	ChangeCreateFile    AutoFixChangeType = "CREATE_FILE"
	ChangeUpdateFile    AutoFixChangeType = "UPDATE_FILE"
	ChangeAddRoute      AutoFixChangeType = "ADD_ROUTE"
	ChangeAddNavigation AutoFixChangeType = "ADD_NAVIGATION"
)

// AutoFixChange is one entry in the append-only auto-fix change log.
type AutoFixChange struct {
	Type        AutoFixChangeType `json:"type"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
}

// MissingPagesDetail is attached to page-completeness errors so the
// report generator and the auto-fix module can recover the route list.
type MissingPagesDetail struct {
	Dashboard     DashboardKind `json:"dashboard"`
	MissingRoutes []string      `json:"missingRoutes"`
}
