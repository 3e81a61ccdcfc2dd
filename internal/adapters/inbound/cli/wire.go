package cli

import (
	"context"
	"fmt"

	"github.com/abanremit/readycheck/internal/adapters/outbound/httpprobe"
	"github.com/abanremit/readycheck/internal/adapters/outbound/pgcatalog"
	"github.com/abanremit/readycheck/internal/application"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/abanremit/readycheck/internal/validators"
)

// buildPhases wires the full validator set for a configuration. The
// page auditor is returned separately so auto-fix can consume its
// missing-route list after the run.
func buildPhases(cfg domain.Config) ([]domain.Phase, *application.PageAudit) {
	prober := httpprobe.New(cfg.HTTPTimeout())
	pages := application.NewPageAudit(cfg.FrontendDir)

	openInspector := func(ctx context.Context) (domain.DatabaseInspector, error) {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("database.url is not configured")
		}
		return pgcatalog.Open(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout(), cfg.Database.QueryTimeout())
	}
	openProbeStore := func(ctx context.Context) (domain.ProbeStore, error) {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("database.url is not configured")
		}
		return pgcatalog.OpenProbeStore(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout(), cfg.Database.QueryTimeout())
	}

	phases := []domain.Phase{
		validators.NewConnectivity(prober, cfg),
		validators.NewDatabaseCheck(openProbeStore),
		validators.NewRealtime(cfg.BackendURL, cfg.HTTPTimeout()),
		validators.NewSecurity(prober, cfg.BackendURL),
		validators.NewHealth(prober, cfg.BackendURL),
		pages,
		validators.NewIntrospection(openInspector, cfg.Database.Role),
	}
	return phases, pages
}

// selectPhases filters to an explicit subset, keeping wiring order.
func selectPhases(phases []domain.Phase, subset []string) []domain.Phase {
	if len(subset) == 0 {
		return phases
	}
	wanted := make(map[string]bool, len(subset))
	for _, name := range subset {
		wanted[name] = true
	}
	var out []domain.Phase
	for _, p := range phases {
		if wanted[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}
