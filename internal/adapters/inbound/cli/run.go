package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configAdapter "github.com/abanremit/readycheck/internal/adapters/outbound/config"
	"github.com/abanremit/readycheck/internal/adapters/outbound/gitinfo"
	"github.com/abanremit/readycheck/internal/adapters/outbound/tui"
	"github.com/abanremit/readycheck/internal/application"
	"github.com/abanremit/readycheck/internal/domain"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		outputPath string
		autoFix    bool
		verbose    bool
		phaseList  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run the production readiness audit",
		Long:  "Validate the application's frontend, backend, database and ledger against production expectations and write a JSON report.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			loader := configAdapter.New()
			var (
				cfg domain.Config
				err error
			)
			if configPath != "" {
				cfg, err = loader.LoadFile(configPath)
			} else {
				cfg, err = loader.Load(dir)
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Flags override file settings.
			if outputPath != "" {
				cfg.ReportPath = outputPath
			}
			if autoFix {
				cfg.AutoFix = true
			}
			if verbose {
				cfg.Verbose = true
			}
			if phaseList != "" {
				cfg.Phases = splitPhases(phaseList)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			phases, pages := buildPhases(cfg)
			orch := application.NewOrchestrator()
			for _, p := range selectPhases(phases, cfg.Phases) {
				orch.Register(p)
			}

			orch.RunAll(cmd.Context())

			if cfg.AutoFix {
				if missing := pages.MissingPages(); len(missing) > 0 {
					fixer := application.NewAutoFixService(cfg.FrontendDir)
					outcome := fixer.ApplyMissingPages(missing)
					orch.SetAutoFixChanges(fixer.ChangeLog())
					for _, fe := range outcome.Errors {
						fmt.Fprintf(cmd.ErrOrStderr(), "auto-fix: %s: %s\n", fe.Path, fe.Error)
					}
					// Re-audit so the report reflects the created pages.
					_, _ = orch.RunPhase(cmd.Context(), domain.PhasePages)
				}
			}

			report := orch.Report()

			// Stamp the audited frontend revision if its work tree is
			// under git.
			gi := gitinfo.New()
			if hash, err := gi.CommitHash(cfg.FrontendDir); err == nil {
				report.CommitHash = hash
			}

			if cfg.ReportPath != "" {
				if err := application.SaveReport(report, cfg.ReportPath); err != nil {
					return fmt.Errorf("saving report: %w", err)
				}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report, cfg.Verbose))
			}

			if !report.ProductionReady {
				return fmt.Errorf("not production ready: %d of %d phases failed",
					report.Summary.FailedPhases, report.Summary.TotalPhases)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a .readycheck.yaml file")
	cmd.Flags().StringVar(&outputPath, "output", "", "Report output path (overrides config)")
	cmd.Flags().BoolVar(&autoFix, "fix", false, "Create missing dashboard pages")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show warnings and auto-fix details")
	cmd.Flags().StringVar(&phaseList, "phases", "", "Comma-separated phase names to run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}

func splitPhases(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
