// cmd/diet-optimizer/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"diet-optimizer/internal/catalog"
	"diet-optimizer/internal/config"
	"diet-optimizer/internal/diet"
	"diet-optimizer/internal/logging"
	"diet-optimizer/internal/metrics"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/report"
	"diet-optimizer/internal/server"
	"diet-optimizer/internal/solver"
	"diet-optimizer/internal/storage"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "diet-optimizer",
		Short:        "Find the cheapest daily diet that meets nutritional targets",
		SilenceUsage: true,
	}
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newOptimizeCommand(),
		newSolversCommand(),
		newFoodsCommand(),
		newServeCommand(),
		newHistoryCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "diet-optimizer version %s\n", version)
			},
		},
	)
	return root
}

// env is what every subcommand needs after configuration is loaded.
type env struct {
	cfg      *config.Config
	log      logr.Logger
	foods    *catalog.Catalog
	registry *solver.Registry
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	foods := catalog.Builtin()
	if cfg.Foods.File != "" {
		if foods, err = catalog.LoadFile(cfg.Foods.File); err != nil {
			return nil, err
		}
	}
	if len(cfg.Foods.Select) > 0 {
		ids := make([]models.FoodID, len(cfg.Foods.Select))
		for i, id := range cfg.Foods.Select {
			ids[i] = models.FoodID(id)
		}
		selected, err := foods.Select(ids...)
		if err != nil {
			return nil, err
		}
		if foods, err = catalog.New(selected...); err != nil {
			return nil, err
		}
	}

	registry := solver.DefaultRegistry(solver.Options{
		Tolerance:  cfg.Solver.Tolerance,
		GLPSOLPath: cfg.Solver.GLPSOLPath,
	})
	return &env{cfg: cfg, log: logger, foods: foods, registry: registry}, nil
}

func newOptimizeCommand() *cobra.Command {
	var (
		writeLP string
		save    bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Solve the configured scenario and print the diet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			scenario, err := e.cfg.ToScenario()
			if err != nil {
				return err
			}

			if writeLP != "" {
				if err := writeModel(writeLP, e.foods.Foods(), scenario); err != nil {
					return err
				}
				e.log.Info("Wrote LP model", "path", writeLP)
			}

			sv, err := e.registry.Get(e.cfg.Solver.Backend)
			if err != nil {
				return err
			}
			opt := diet.NewOptimizer(sv, e.log, nil)
			out, err := opt.Run(cmd.Context(), e.foods.Foods(), scenario)
			if err != nil {
				return err
			}

			if save {
				if err := saveOutcome(e.cfg.Storage.DBPath, out); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return report.Write(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&writeLP, "write-lp", "", "Also write the model in CPLEX LP format to this file")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run in the history database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	return cmd
}

func writeModel(path string, foods []models.Food, scenario diet.Scenario) error {
	p, err := diet.Build(foods, scenario)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := solver.WriteLP(f, p.Model); err != nil {
		f.Close()
		return fmt.Errorf("failed to write LP model: %w", err)
	}
	return f.Close()
}

func saveOutcome(dbPath string, out *diet.Outcome) error {
	run, err := out.Record(time.Now())
	if err != nil {
		return err
	}
	stor, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer stor.Close()
	return stor.SaveRun(run)
}

func newSolversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List LP backends and whether they can run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Available solvers: %s\n", strings.Join(e.registry.Available(), ", "))
			for _, a := range e.registry.Discover() {
				if !a.Available {
					fmt.Fprintf(w, "  %s unavailable: %s\n", a.Name, a.Reason)
				}
			}
			return nil
		},
	}
}

func newFoodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "foods",
		Short: "List foods with their cost per calorie",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\t$/1000 kcal")
			for _, f := range e.foods.Foods() {
				dpc, err := f.DollarsPerCalorie()
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Name, report.Dollars(dpc*1000))
			}
			return tw.Flush()
		},
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer tools over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if e.cfg.Server.Transport != "http" {
				return fmt.Errorf("unsupported transport %q", e.cfg.Server.Transport)
			}
			scenario, err := e.cfg.ToScenario()
			if err != nil {
				return err
			}

			srv, err := server.NewDietServer(&server.Config{
				Host:      e.cfg.HostAddr(),
				Port:      e.cfg.Server.Port,
				DBPath:    e.cfg.Storage.DBPath,
				Backend:   e.cfg.Solver.Backend,
				CacheSize: e.cfg.Cache.Size,
				Scenario:  scenario,
				Version:   version,
			}, e.foods, e.registry, metrics.NewRecorder(), e.log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(ctx); err != nil {
					errCh <- err
				}
			}()

			var serveErr error
			select {
			case <-sigCh:
				e.log.Info("Received shutdown signal")
			case serveErr = <-errCh:
				e.log.Error(serveErr, "Server error")
			}

			e.log.Info("Shutting down")
			cancel()
			if err := srv.Stop(); err != nil {
				e.log.Error(err, "Error during shutdown")
			}
			return serveErr
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var (
		since string
		until string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored optimization runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			from, err := parseDay(since, false)
			if err != nil {
				return err
			}
			to, err := parseDay(until, true)
			if err != nil {
				return err
			}

			stor, err := storage.NewSQLiteStorage(e.cfg.Storage.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer stor.Close()

			runs, err := stor.GetRuns(from, to, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Created\tScenario\tStatus\tBackend\tCost/day\tID")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.ScenarioName, r.Status,
					r.Backend, report.Dollars(r.CostPerDay), r.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Earliest day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Latest day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")
	return cmd
}

func parseDay(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", value, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
