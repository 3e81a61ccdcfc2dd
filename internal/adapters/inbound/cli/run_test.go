package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abanremit/readycheck/internal/adapters/inbound/cli"
	"github.com/abanremit/readycheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject lays out a project directory with a config restricted to
// the page-completeness phase, plus a frontend page for each given
// route.
func writeProject(t *testing.T, routes []string) string {
	t.Helper()
	dir := t.TempDir()

	frontend := filepath.Join(dir, "frontend")
	require.NoError(t, os.MkdirAll(filepath.Join(frontend, "pages"), 0755))
	for _, route := range routes {
		path := filepath.Join(frontend, "pages", filepath.FromSlash(route[1:])+".tsx")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("export default function Page() {}\n"), 0644))
	}

	cfg := fmt.Sprintf("frontend_dir: %s\nphases:\n  - %s\n", frontend, domain.PhasePages)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".readycheck.yaml"), []byte(cfg), 0644))
	return dir
}

func allRoutes() []string {
	var routes []string
	for _, catalog := range domain.AllCatalogs() {
		routes = append(routes, catalog.Routes...)
	}
	return routes
}

func TestRunCmd_CompleteTreeIsReady(t *testing.T) {
	dir := writeProject(t, allRoutes())
	reportPath := filepath.Join(dir, "out", "report.json")

	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"run", dir, "--output", reportPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "PRODUCTION READY")
	assert.FileExists(t, reportPath)
}

func TestRunCmd_IncompleteTreeFails(t *testing.T) {
	dir := writeProject(t, []string{"/dashboard"})

	root := cli.NewRootCmdForTest()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"run", dir, "--output", filepath.Join(dir, "report.json")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not production ready")
}

func TestRunCmd_JSONOutput(t *testing.T) {
	dir := writeProject(t, allRoutes())

	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"run", dir, "--output", filepath.Join(dir, "report.json"), "--json"})
	require.NoError(t, root.Execute())

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report), "output should be valid JSON")
	assert.True(t, report.ProductionReady)
	assert.Equal(t, 1, report.Summary.TotalPhases)
	assert.Equal(t, "OK", report.Phases[domain.PhaseKeyPages].Status)
	assert.Equal(t, "WARN", report.Phases[domain.PhaseKeyDatabase].Status)
}

func TestRunCmd_FixCreatesMissingPages(t *testing.T) {
	dir := writeProject(t, []string{"/dashboard"})
	reportPath := filepath.Join(dir, "report.json")

	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"run", dir, "--output", reportPath, "--fix", "--json"})
	require.NoError(t, root.Execute(), "the re-audit after auto-fix should pass")

	// Every previously missing page now exists.
	assert.FileExists(t, filepath.Join(dir, "frontend", "pages", "send-money.tsx"))
	assert.FileExists(t, filepath.Join(dir, "frontend", "pages", "admin", "audit-logs", "index.tsx"))

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.True(t, report.ProductionReady)
	assert.Len(t, report.AutoFixChanges, len(allRoutes())-1)
	assert.Empty(t, report.MissingPages)
}

func TestRunCmd_StampsFrontendCommitHash(t *testing.T) {
	dir := writeProject(t, allRoutes())
	frontend := filepath.Join(dir, "frontend")

	git := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = frontend
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, string(out))
		return string(out)
	}
	git("init")
	git("config", "user.email", "audit@abanremit.test")
	git("config", "user.name", "audit")
	git("add", ".")
	git("commit", "-m", "frontend pages")
	head := strings.TrimSpace(git("rev-parse", "HEAD"))

	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"run", dir, "--output", filepath.Join(dir, "report.json"), "--json"})
	require.NoError(t, root.Execute())

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, head, report.CommitHash, "hash should come from the frontend work tree")
}

func TestRunCmd_PhasesFlagOverridesConfig(t *testing.T) {
	dir := writeProject(t, allRoutes())

	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{
		"run", dir,
		"--output", filepath.Join(dir, "report.json"),
		"--phases", domain.PhasePages,
		"--json",
	})
	require.NoError(t, root.Execute())

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 1, report.Summary.TotalPhases)
}

func TestRunCmd_UnknownPhaseRejected(t *testing.T) {
	dir := writeProject(t, allRoutes())

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"run", dir, "--phases", "Telemetry"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")
}

func TestRunCmd_ConfigFlag(t *testing.T) {
	dir := writeProject(t, allRoutes())
	custom := filepath.Join(t.TempDir(), "audit.yaml")
	cfg := fmt.Sprintf("frontend_dir: %s\nphases:\n  - %s\n",
		filepath.Join(dir, "frontend"), domain.PhasePages)
	require.NoError(t, os.WriteFile(custom, []byte(cfg), 0644))

	root := cli.NewRootCmdForTest()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"run", "--config", custom, "--output", filepath.Join(dir, "report.json")})
	assert.NoError(t, root.Execute())
}

func TestVersionCmd(t *testing.T) {
	root := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "readycheck")
}
