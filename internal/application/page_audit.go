package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abanremit/readycheck/internal/domain"
)

// pagesDirCandidates are the conventional locations of the route tree
// inside a frontend checkout, checked in order.
var pagesDirCandidates = []string{"pages", "src/pages", "app", "src/app"}

// CatalogAudit is the completeness diff for one route catalog.
type CatalogAudit struct {
	Dashboard      domain.DashboardKind `json:"dashboard"`
	RequiredRoutes []string             `json:"required_routes"`
	ExistingRoutes []string             `json:"existing_routes"`
	MissingRoutes  []string             `json:"missing_routes"`
}

// PageAudit audits the frontend route tree against the three fixed
// route catalogs. It implements domain.Phase.
type PageAudit struct {
	frontendDir string
	lastMissing []string
}

func NewPageAudit(frontendDir string) *PageAudit {
	return &PageAudit{frontendDir: frontendDir}
}

func (a *PageAudit) Name() string { return domain.PhasePages }

// Execute diffs all three catalogs. A missing frontend root or pages
// directory is a WARN (nothing to audit), missing routes are a FAIL,
// and PASS requires all three catalogs fully satisfied.
func (a *PageAudit) Execute(_ context.Context) (domain.PhaseResult, error) {
	a.lastMissing = nil

	if _, err := os.Stat(a.frontendDir); err != nil {
		return domain.NewPhaseResult(a.Name(), nil, []domain.ValidationWarning{{
			Phase:      a.Name(),
			Message:    fmt.Sprintf("Frontend directory not found: %s", a.frontendDir),
			Suggestion: "Set frontend_dir in .readycheck.yaml to the frontend checkout",
		}}), nil
	}

	pagesDir, ok := FindPagesDir(a.frontendDir)
	if !ok {
		return domain.NewPhaseResult(a.Name(), nil, []domain.ValidationWarning{{
			Phase:      a.Name(),
			Message:    "No pages directory found under " + a.frontendDir,
			Suggestion: fmt.Sprintf("Expected one of %v", pagesDirCandidates),
		}}), nil
	}

	var errs []domain.ValidationError
	for _, catalog := range domain.AllCatalogs() {
		audit := auditCatalog(pagesDir, catalog)
		if len(audit.MissingRoutes) == 0 {
			continue
		}
		a.lastMissing = append(a.lastMissing, audit.MissingRoutes...)
		errs = append(errs, domain.NewError(a.Name(), domain.CodeMissingPages,
			fmt.Sprintf("%s dashboard is missing %d of %d required pages",
				audit.Dashboard, len(audit.MissingRoutes), len(audit.RequiredRoutes)),
			domain.MissingPagesDetail{Dashboard: audit.Dashboard, MissingRoutes: audit.MissingRoutes},
		))
	}

	return domain.NewPhaseResult(a.Name(), errs, nil), nil
}

// MissingPages returns the union of missing routes found by the last
// Execute, in catalog order, for the auto-fix module to consume.
func (a *PageAudit) MissingPages() []string {
	out := make([]string, len(a.lastMissing))
	copy(out, a.lastMissing)
	return out
}

// AuditUserDashboard diffs the user catalog against the route tree.
func (a *PageAudit) AuditUserDashboard() CatalogAudit { return a.audit(domain.UserRoutes) }

// AuditAgentDashboard diffs the agent catalog against the route tree.
func (a *PageAudit) AuditAgentDashboard() CatalogAudit { return a.audit(domain.AgentRoutes) }

// AuditAdminDashboard diffs the admin catalog against the route tree.
func (a *PageAudit) AuditAdminDashboard() CatalogAudit { return a.audit(domain.AdminRoutes) }

func (a *PageAudit) audit(catalog domain.RouteCatalog) CatalogAudit {
	pagesDir, ok := FindPagesDir(a.frontendDir)
	if !ok {
		return CatalogAudit{
			Dashboard:      catalog.Dashboard,
			RequiredRoutes: catalog.Routes,
			MissingRoutes:  catalog.Routes,
		}
	}
	return auditCatalog(pagesDir, catalog)
}

func auditCatalog(pagesDir string, catalog domain.RouteCatalog) CatalogAudit {
	audit := CatalogAudit{Dashboard: catalog.Dashboard, RequiredRoutes: catalog.Routes}
	for _, route := range catalog.Routes {
		if RouteExists(pagesDir, route) {
			audit.ExistingRoutes = append(audit.ExistingRoutes, route)
		} else {
			audit.MissingRoutes = append(audit.MissingRoutes, route)
		}
	}
	return audit
}

// FindPagesDir locates the conventional route tree inside frontendDir.
func FindPagesDir(frontendDir string) (string, bool) {
	for _, candidate := range pagesDirCandidates {
		dir := filepath.Join(frontendDir, filepath.FromSlash(candidate))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// RouteExists reports whether any of the four file-layout conventions
// resolves the route to an existing file: a flat base.<ext>, a
// base/index.<ext> directory, an application-router base/page.<ext>
// directory, each tried across the accepted extension set.
func RouteExists(pagesDir, route string) bool {
	base := filepath.FromSlash(strings.TrimPrefix(route, "/"))
	for _, ext := range domain.PageExtensions {
		candidates := []string{
			filepath.Join(pagesDir, base+ext),
			filepath.Join(pagesDir, base, "index"+ext),
			filepath.Join(pagesDir, base, "page"+ext),
		}
		for _, path := range candidates {
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return true
			}
		}
	}
	return false
}
