package validators

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abanremit/readycheck/internal/domain"
)

// debugSurfaces must never be reachable on a production deployment.
var debugSurfaces = []string{"/debug/pprof/", "/.env", "/server-status"}

// securityHeaders are advisory: their absence is a warning, not a
// readiness gate.
var securityHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Strict-Transport-Security",
}

// Security runs heuristic probes against the backend: bearer-token
// enforcement with a forged token, exposed debug surfaces, and
// security-header hygiene.
type Security struct {
	prober     domain.HTTPProber
	backendURL string
}

func NewSecurity(prober domain.HTTPProber, backendURL string) *Security {
	return &Security{prober: prober, backendURL: backendURL}
}

func (v *Security) Name() string { return domain.PhaseSecurity }

func (v *Security) Execute(ctx context.Context) (domain.PhaseResult, error) {
	var (
		mu    sync.Mutex
		errs  []domain.ValidationError
		warns []domain.ValidationWarning
	)
	addErr := func(e domain.ValidationError) {
		mu.Lock()
		errs = append(errs, e)
		mu.Unlock()
	}
	addWarn := func(w domain.ValidationWarning) {
		mu.Lock()
		warns = append(warns, w)
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		v.checkForgedToken(ctx, addErr)
		return nil
	})
	for _, surface := range debugSurfaces {
		g.Go(func() error {
			v.checkDebugSurface(ctx, surface, addErr)
			return nil
		})
	}
	g.Go(func() error {
		v.checkSecurityHeaders(ctx, addWarn)
		return nil
	})
	_ = g.Wait()

	return domain.NewPhaseResult(v.Name(), errs, warns), nil
}

// checkForgedToken expects the protected endpoint to reject a
// syntactically valid but forged bearer token.
func (v *Security) checkForgedToken(ctx context.Context, addErr func(domain.ValidationError)) {
	headers := map[string]string{"Authorization": "Bearer forged.audit.token"}
	resp, err := v.prober.Get(ctx, v.backendURL+ProtectedEndpoint, headers)
	if err != nil {
		addErr(domain.NewError(v.Name(), domain.CodeBackendUnreachable,
			"Forged-token probe failed", err.Error()))
		return
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		addErr(domain.NewError(v.Name(), domain.CodeAuthNotEnforced,
			fmt.Sprintf("%s accepted a forged bearer token (status %d)", ProtectedEndpoint, resp.StatusCode), nil))
	}
}

func (v *Security) checkDebugSurface(ctx context.Context, surface string, addErr func(domain.ValidationError)) {
	resp, err := v.prober.Get(ctx, v.backendURL+surface, nil)
	if err != nil {
		return // unreachable is the desired outcome
	}
	if resp.StatusCode == http.StatusOK {
		addErr(domain.NewError(v.Name(), domain.CodeSecurityExposure,
			fmt.Sprintf("Debug surface %s is publicly reachable", surface), nil))
	}
}

func (v *Security) checkSecurityHeaders(ctx context.Context, addWarn func(domain.ValidationWarning)) {
	resp, err := v.prober.Get(ctx, v.backendURL+"/", nil)
	if err != nil {
		return // liveness failures belong to the connectivity phase
	}
	for _, header := range securityHeaders {
		if _, ok := resp.Headers[header]; !ok {
			addWarn(domain.ValidationWarning{
				Phase:      v.Name(),
				Message:    fmt.Sprintf("Response is missing the %s header", header),
				Suggestion: fmt.Sprintf("Add %s at the reverse proxy or API gateway", header),
			})
		}
	}
}
