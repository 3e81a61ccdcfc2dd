package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/abanremit/readycheck/internal/domain"
)

// healthRequiredFields must all be present in the health payload.
var healthRequiredFields = []string{"status", "server", "database", "uptime", "version"}

// healthComponentFields are the sub-objects that must each carry their
// own status field.
var healthComponentFields = []string{"server", "database"}

// Health verifies the shape of the deployment's health endpoint, not
// just its reachability: the payload must carry status, server,
// database, uptime and version, with a status on every component.
type Health struct {
	prober     domain.HTTPProber
	backendURL string
}

func NewHealth(prober domain.HTTPProber, backendURL string) *Health {
	return &Health{prober: prober, backendURL: backendURL}
}

func (v *Health) Name() string { return domain.PhaseHealth }

func (v *Health) Execute(ctx context.Context) (domain.PhaseResult, error) {
	body, endpoint, ok := v.fetch(ctx)
	if !ok {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeHealthUnreachable,
				fmt.Sprintf("No health endpoint responded with 200 (tried %v)", HealthEndpoints), nil),
		}, nil), nil
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.NewPhaseResult(v.Name(), []domain.ValidationError{
			domain.NewError(v.Name(), domain.CodeHealthInvalidShape,
				fmt.Sprintf("%s did not return valid JSON", endpoint), err.Error()),
		}, nil), nil
	}

	var errs []domain.ValidationError
	var warns []domain.ValidationWarning

	for _, field := range healthRequiredFields {
		if _, ok := payload[field]; !ok {
			errs = append(errs, domain.NewError(v.Name(), domain.CodeHealthInvalidShape,
				fmt.Sprintf("Health payload is missing required field %q", field), nil))
		}
	}

	for _, field := range healthComponentFields {
		component, ok := payload[field].(map[string]any)
		if !ok {
			continue // absence already reported above
		}
		status, ok := component["status"].(string)
		if !ok {
			errs = append(errs, domain.NewError(v.Name(), domain.CodeHealthInvalidShape,
				fmt.Sprintf("Health component %q has no status field", field), nil))
			continue
		}
		if !healthyStatus(status) {
			warns = append(warns, domain.ValidationWarning{
				Phase:      v.Name(),
				Message:    fmt.Sprintf("Health component %q reports status %q", field, status),
				Suggestion: "Investigate the degraded component before go-live",
			})
		}
	}

	return domain.NewPhaseResult(v.Name(), errs, warns), nil
}

func (v *Health) fetch(ctx context.Context) (body []byte, endpoint string, ok bool) {
	for _, path := range HealthEndpoints {
		resp, err := v.prober.Get(ctx, v.backendURL+path, nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp.Body, path, true
		}
	}
	return nil, "", false
}

func healthyStatus(s string) bool {
	switch strings.ToLower(s) {
	case "ok", "up", "healthy", "pass":
		return true
	}
	return false
}
