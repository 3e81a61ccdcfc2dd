package domain

import (
	"encoding/json"
	"time"
)

// PhaseStatusCode is the outcome of a single audit phase.
type PhaseStatusCode string

const (
	StatusPass PhaseStatusCode = "PASS"
	StatusFail PhaseStatusCode = "FAIL"
	StatusWarn PhaseStatusCode = "WARN"
)

// PhaseResult is the immutable outcome of one phase execution.
// Status is derived from the error/warning lists: any error means FAIL,
// warnings alone mean WARN, otherwise PASS.
type PhaseResult struct {
	PhaseName string              `json:"phase_name"`
	Status    PhaseStatusCode     `json:"status"`
	Errors    []ValidationError   `json:"errors,omitempty"`
	Warnings  []ValidationWarning `json:"warnings,omitempty"`
	Duration  time.Duration       `json:"-"`
}

// MarshalJSON emits Duration as integer milliseconds. time.Duration
// would otherwise serialize as nanoseconds under a key named _ms.
func (r PhaseResult) MarshalJSON() ([]byte, error) {
	type plain PhaseResult
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration_ms"`
	}{plain(r), r.Duration.Milliseconds()})
}

// ValidationError is a readiness-gating finding.
type ValidationError struct {
	Phase     string    `json:"phase"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationWarning is an advisory finding. It never gates readiness.
type ValidationWarning struct {
	Phase      string `json:"phase"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Stable error codes, <SUBSYSTEM>_<FAILURE_MODE>.
const (
	CodePhaseExecutionFailed = "PHASE_EXECUTION_FAILED"
	CodePhaseNotFound        = "PHASE_NOT_FOUND"

	CodeBackendUnreachable  = "BACKEND_UNREACHABLE"
	CodeFrontendUnreachable = "FRONTEND_UNREACHABLE"
	CodeAuthLoginFailed     = "AUTH_LOGIN_FAILED"
	CodeAuthNotEnforced     = "AUTH_NOT_ENFORCED"
	CodeHealthUnreachable   = "HEALTH_UNREACHABLE"
	CodeHealthInvalidShape  = "HEALTH_INVALID_SHAPE"

	CodeDBConnectionFailed        = "DB_CONNECTION_FAILED"
	CodeCRUDCreateFailed          = "CRUD_CREATE_FAILED"
	CodeCRUDReadFailed            = "CRUD_READ_FAILED"
	CodeCRUDUpdateFailed          = "CRUD_UPDATE_FAILED"
	CodeCRUDDeleteFailed          = "CRUD_DELETE_FAILED"
	CodeTransactionRollbackFailed = "TRANSACTION_ROLLBACK_FAILED"

	CodeRealtimeUnavailable = "REALTIME_UNAVAILABLE"
	CodeSecurityExposure    = "SECURITY_EXPOSURE"

	CodeSchemaValidationFailed = "SCHEMA_VALIDATION_FAILED"
	CodeConstraintMissing      = "CONSTRAINT_MISSING"
	CodeIndexMissing           = "INDEX_MISSING"
	CodeSystemAccountInvalid   = "SYSTEM_ACCOUNT_INVALID"
	CodeUnbalancedTransactions = "UNBALANCED_TRANSACTIONS"
	CodeOrphanedEntries        = "ORPHANED_ENTRIES"
	CodeNegativeAmounts        = "NEGATIVE_AMOUNTS"
	CodeIdempotencyViolation   = "IDEMPOTENCY_VIOLATION"
	CodePrivilegeMismatch      = "PRIVILEGE_MISMATCH"

	CodeMissingPages = "MISSING_PAGES"
)

// NewError builds a ValidationError stamped with the current time.
func NewError(phase, code, message string, details any) ValidationError {
	return ValidationError{
		Phase:     phase,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ResolveStatus computes the status a result must carry for a given
// error/warning count. Kept in one place so the invariant cannot drift.
func ResolveStatus(errCount, warnCount int) PhaseStatusCode {
	switch {
	case errCount > 0:
		return StatusFail
	case warnCount > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}

// NewPhaseResult assembles a PhaseResult with the status derived from
// the finding lists.
func NewPhaseResult(phase string, errs []ValidationError, warns []ValidationWarning) PhaseResult {
	return PhaseResult{
		PhaseName: phase,
		Status:    ResolveStatus(len(errs), len(warns)),
		Errors:    errs,
		Warnings:  warns,
	}
}

// CheckOutcome is the result of one introspection sub-check. The parent
// introspection phase aggregates these into a single PhaseResult.
type CheckOutcome struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
