package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/abanremit/readycheck/internal/domain"
)

// FixFailure records one route the auto-fix could not synthesize.
type FixFailure struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}

// FixOutcome is the result of one auto-fix batch.
type FixOutcome struct {
	Success        bool                   `json:"success"`
	ChangesApplied []domain.AutoFixChange `json:"changes_applied"`
	Errors         []FixFailure           `json:"errors"`
}

// AutoFixService synthesizes placeholder page files for missing
// frontend routes. The change log is append-only across batches.
type AutoFixService struct {
	frontendDir string
	changeLog   []domain.AutoFixChange
}

func NewAutoFixService(frontendDir string) *AutoFixService {
	return &AutoFixService{frontendDir: frontendDir}
}

// ApplyMissingPages creates one page file per missing route. A failure
// on one route never aborts the batch; the remaining routes are still
// processed. Routes whose target file already exists are skipped, so a
// re-run over an already-fixed tree is a no-op.
func (s *AutoFixService) ApplyMissingPages(routes []string) FixOutcome {
	outcome := FixOutcome{ChangesApplied: []domain.AutoFixChange{}, Errors: []FixFailure{}}

	if _, err := os.Stat(s.frontendDir); err != nil {
		outcome.Errors = append(outcome.Errors, FixFailure{Error: "Frontend directory not found"})
		return outcome
	}
	pagesDir, ok := FindPagesDir(s.frontendDir)
	if !ok {
		outcome.Errors = append(outcome.Errors, FixFailure{Error: "Could not find pages directory"})
		return outcome
	}

	for _, route := range routes {
		if RouteExists(pagesDir, route) {
			continue
		}
		change, err := s.createPage(pagesDir, route)
		if err != nil {
			outcome.Errors = append(outcome.Errors, FixFailure{Path: route, Error: err.Error()})
			continue
		}
		s.changeLog = append(s.changeLog, change)
		outcome.ChangesApplied = append(outcome.ChangesApplied, change)
	}

	outcome.Success = len(outcome.Errors) == 0
	return outcome
}

// ChangeLog returns a defensive copy of the accumulated change log.
func (s *AutoFixService) ChangeLog() []domain.AutoFixChange {
	out := make([]domain.AutoFixChange, len(s.changeLog))
	copy(out, s.changeLog)
	return out
}

func (s *AutoFixService) createPage(pagesDir, route string) (domain.AutoFixChange, error) {
	target := PageFilePath(pagesDir, route)

	if dir := filepath.Dir(target); dir != pagesDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.AutoFixChange{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	content := renderPageTemplate(route)
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return domain.AutoFixChange{}, fmt.Errorf("writing %s: %w", target, err)
	}

	return domain.AutoFixChange{
		Type:        domain.ChangeCreateFile,
		Path:        target,
		Description: fmt.Sprintf("Created %s page for route %s", domain.KindForRoute(route), route),
	}, nil
}

// PageFilePath maps a route to its auto-fix target: single-segment
// routes become flat files, nested routes become index files inside a
// directory tree.
func PageFilePath(pagesDir, route string) string {
	base := strings.TrimPrefix(route, "/")
	ext := domain.PageExtensions[0]
	if !strings.Contains(base, "/") {
		return filepath.Join(pagesDir, base+ext)
	}
	return filepath.Join(pagesDir, filepath.FromSlash(base), "index"+ext)
}

// RouteComponentName derives a component identifier from a route path:
// /admin/exchange-rates -> AdminExchangeRates.
func RouteComponentName(route string) string {
	var b strings.Builder
	for _, word := range routeWords(route) {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// RouteTitle derives a human title from a route path:
// /admin/exchange-rates -> "Admin Exchange Rates".
func RouteTitle(route string) string {
	words := routeWords(route)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// routeWords splits a route into words on /, - and camelCase humps, so
// /load-wallet and /loadWallet derive the same identifier.
func routeWords(route string) []string {
	var words []string
	for _, segment := range strings.FieldsFunc(route, func(r rune) bool {
		return r == '/' || r == '-'
	}) {
		for _, w := range camelcase.Split(segment) {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

const userPageTemplate = `import React from 'react';
import DashboardLayout from '@/components/layouts/DashboardLayout';

export default function %[1]s() {
  return (
    <DashboardLayout title="%[2]s">
      <h1>%[2]s</h1>
      <p>This page is under construction.</p>
    </DashboardLayout>
  );
}
`

const agentPageTemplate = `import React from 'react';
import AgentLayout from '@/components/layouts/AgentLayout';

export default function %[1]s() {
  return (
    <AgentLayout title="%[2]s">
      <h1>%[2]s</h1>
      <p>This page is under construction.</p>
    </AgentLayout>
  );
}
`

const adminPageTemplate = `import React from 'react';
import AdminLayout from '@/components/layouts/AdminLayout';

export default function %[1]s() {
  return (
    <AdminLayout title="%[2]s">
      <h1>%[2]s</h1>
      <p>This page is under construction.</p>
    </AdminLayout>
  );
}
`

func renderPageTemplate(route string) string {
	tmpl := userPageTemplate
	switch domain.KindForRoute(route) {
	case domain.DashboardAgent:
		tmpl = agentPageTemplate
	case domain.DashboardAdmin:
		tmpl = adminPageTemplate
	}
	return fmt.Sprintf(tmpl, RouteComponentName(route), RouteTitle(route))
}
