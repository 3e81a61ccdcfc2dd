// Package validators contains the audit phases that probe a deployed
// stack: HTTP surface, realtime transport, database behaviour and
// structural metadata. Each validator maps expected failure modes to
// findings locally; only genuinely unexpected conditions surface as
// errors, which the orchestrator folds into a FAIL result.
package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abanremit/readycheck/internal/domain"
)

// Connectivity probes the deployed stack's HTTP surface: backend and
// frontend liveness, login, bearer-token enforcement and health
// reachability. The five checks are independent reads and run
// concurrently; the phase resolves all of them before returning.
type Connectivity struct {
	prober      domain.HTTPProber
	backendURL  string
	frontendURL string
	email       string
	password    string
}

func NewConnectivity(prober domain.HTTPProber, cfg domain.Config) *Connectivity {
	return &Connectivity{
		prober:      prober,
		backendURL:  cfg.BackendURL,
		frontendURL: cfg.FrontendURL,
		email:       cfg.TestEmail,
		password:    cfg.TestPassword,
	}
}

func (v *Connectivity) Name() string { return domain.PhaseFrontendBackend }

func (v *Connectivity) Execute(ctx context.Context) (domain.PhaseResult, error) {
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
		v.checkBackendLiveness(ctx, addErr)
		return nil
	})
	g.Go(func() error {
		v.checkFrontendLiveness(ctx, addErr, addWarn)
		return nil
	})
	g.Go(func() error {
		v.checkLogin(ctx, addErr)
		return nil
	})
	g.Go(func() error {
		v.checkAuthEnforced(ctx, addErr)
		return nil
	})
	g.Go(func() error {
		v.checkHealthReachable(ctx, addErr)
		return nil
	})

	_ = g.Wait() // check funcs report through findings, never errors

	return domain.NewPhaseResult(v.Name(), errs, warns), nil
}

func (v *Connectivity) checkBackendLiveness(ctx context.Context, addErr func(domain.ValidationError)) {
	resp, err := v.prober.Get(ctx, v.backendURL+"/", nil)
	if err != nil {
		addErr(domain.NewError(v.Name(), domain.CodeBackendUnreachable,
			fmt.Sprintf("Backend is unreachable at %s", v.backendURL), err.Error()))
		return
	}
	if resp.StatusCode >= 500 {
		addErr(domain.NewError(v.Name(), domain.CodeBackendUnreachable,
			fmt.Sprintf("Backend returned %d on liveness probe", resp.StatusCode), nil))
	}
}

func (v *Connectivity) checkFrontendLiveness(ctx context.Context, addErr func(domain.ValidationError), addWarn func(domain.ValidationWarning)) {
	if v.frontendURL == "" {
		addWarn(domain.ValidationWarning{
			Phase:      v.Name(),
			Message:    "frontend_url not configured, skipping frontend liveness",
			Suggestion: "Set frontend_url in .readycheck.yaml",
		})
		return
	}
	resp, err := v.prober.Get(ctx, v.frontendURL+"/", nil)
	if err != nil {
		addErr(domain.NewError(v.Name(), domain.CodeFrontendUnreachable,
			fmt.Sprintf("Frontend is unreachable at %s", v.frontendURL), err.Error()))
		return
	}
	if resp.StatusCode >= 500 {
		addErr(domain.NewError(v.Name(), domain.CodeFrontendUnreachable,
			fmt.Sprintf("Frontend returned %d on liveness probe", resp.StatusCode), nil))
	}
}

// checkLogin posts the configured test credentials and expects a token
// or accessToken field on success.
func (v *Connectivity) checkLogin(ctx context.Context, addErr func(domain.ValidationError)) {
	resp, err := v.prober.PostJSON(ctx, v.backendURL+"/auth/login",
		map[string]string{"email": v.email, "password": v.password}, nil)
	if err != nil {
		addErr(domain.NewError(v.Name(), domain.CodeAuthLoginFailed, "Login request failed", err.Error()))
		return
	}
	if resp.StatusCode != http.StatusOK {
		addErr(domain.NewError(v.Name(), domain.CodeAuthLoginFailed,
			fmt.Sprintf("Login returned %d for test credentials", resp.StatusCode), nil))
		return
	}
	if ExtractToken(resp.Body) == "" {
		addErr(domain.NewError(v.Name(), domain.CodeAuthLoginFailed,
			"Login response carries neither token nor accessToken", string(resp.Body)))
	}
}

// checkAuthEnforced hits a known authenticated-only endpoint without a
// bearer token and expects a 401 or 403.
func (v *Connectivity) checkAuthEnforced(ctx context.Context, addErr func(domain.ValidationError)) {
	resp, err := v.prober.Get(ctx, v.backendURL+ProtectedEndpoint, nil)
	if err != nil {
		addErr(domain.NewError(v.Name(), domain.CodeBackendUnreachable,
			"Authenticated endpoint probe failed", err.Error()))
		return
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		addErr(domain.NewError(v.Name(), domain.CodeAuthNotEnforced,
			fmt.Sprintf("%s returned %d without a bearer token (expected 401/403)",
				ProtectedEndpoint, resp.StatusCode), nil))
	}
}

func (v *Connectivity) checkHealthReachable(ctx context.Context, addErr func(domain.ValidationError)) {
	for _, path := range HealthEndpoints {
		resp, err := v.prober.Get(ctx, v.backendURL+path, nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return
		}
	}
	addErr(domain.NewError(v.Name(), domain.CodeHealthUnreachable,
		fmt.Sprintf("No health endpoint responded with 200 (tried %v)", HealthEndpoints), nil))
}

// ProtectedEndpoint is the authenticated-only endpoint used by the
// bearer-token checks.
const ProtectedEndpoint = "/wallet/balance"

// HealthEndpoints are probed in order until one answers.
var HealthEndpoints = []string{"/system/health", "/health"}

// ExtractToken pulls token or accessToken out of a login response body.
func ExtractToken(body []byte) string {
	var payload struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Token != "" {
		return payload.Token
	}
	return payload.AccessToken
}
