// Command econsim runs the closed-economy simulation to completion and
// reports a summary. The run is batch: load config, simulate, optionally
// persist the action log and archive the result.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/econsim/internal/config"
	"github.com/talgya/econsim/internal/persistence"
	"github.com/talgya/econsim/internal/sim"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML or TOML config file (defaults apply when empty)")
		seed       = flag.Uint64("seed", 0, "override the config seed (0 keeps the config value)")
		maxSteps   = flag.Int("steps", 0, "override max_steps (0 keeps the config value)")
		logPath    = flag.String("log", "", "write the action log JSON to this path")
		dbPath     = flag.String("db", "", "archive the run into this SQLite database")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("config loaded", "path", *configPath)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *maxSteps != 0 {
		cfg.MaxSteps = *maxSteps
	}

	engine, err := sim.NewEngine(cfg)
	if err != nil {
		slog.Error("failed to construct engine", "error", err)
		os.Exit(1)
	}

	result, err := engine.Run()
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	if *logPath != "" {
		if err := engine.ActionLog().SaveToFile(*logPath); err != nil {
			slog.Error("failed to save action log", "path", *logPath, "error", err)
			os.Exit(1)
		}
		slog.Info("action log saved", "path", *logPath, "actions", len(engine.ActionLog().Actions))
	}

	if *dbPath != "" {
		db, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open archive", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runID, err := db.SaveRun(cfg, result, engine.ActionLog())
		if err != nil {
			slog.Error("failed to archive run", "error", err)
			os.Exit(1)
		}
		slog.Info("run archived", "run_id", runID, "path", *dbPath)
	}

	printSummary(cfg, result)
}

func printSummary(cfg config.SimulationConfig, result *sim.SimulationResult) {
	fmt.Printf("\n=== Simulation Summary ===\n")
	fmt.Printf("Scenario:          %s (seed %d)\n", cfg.Scenario, cfg.Seed)
	fmt.Printf("Steps completed:   %s\n", humanize.Comma(int64(result.TotalSteps)))
	fmt.Printf("Active persons:    %s of %s\n",
		humanize.Comma(int64(result.ActivePersons)), humanize.Comma(int64(cfg.EntityCount)))
	fmt.Printf("Trades:            %s successful, %s failed\n",
		humanize.Comma(int64(result.TotalTrades)), humanize.Comma(int64(result.TotalFailedTrades)))
	fmt.Printf("Crises:            %s\n", humanize.Comma(int64(result.TotalCrises)))
	fmt.Printf("Total money:       %s\n", humanize.CommafWithDigits(result.Money.Total, 2))
	fmt.Printf("Mean balance:      %s (min %s, max %s)\n",
		humanize.CommafWithDigits(result.Money.Mean, 2),
		humanize.CommafWithDigits(result.Money.Min, 2),
		humanize.CommafWithDigits(result.Money.Max, 2))
	fmt.Printf("Mean skill price:  %s\n", humanize.CommafWithDigits(result.Market.MeanPrice, 2))
	fmt.Printf("Tax redistributed: %s\n", humanize.CommafWithDigits(result.TaxRedistributed, 2))
	fmt.Printf("Sustainability:    %.3f\n", result.Sustainability)

	if result.Loans != nil {
		fmt.Printf("Loans:             %d issued, %d repaid, %d defaulted\n",
			result.Loans.TotalIssued, result.Loans.TotalRepaid, result.Loans.TotalDefaulted)
	}
	if result.Insurance != nil {
		fmt.Printf("Insurance:         %d policies, %d claims, pool %s\n",
			result.Insurance.PoliciesIssued, result.Insurance.ClaimsPaid,
			humanize.CommafWithDigits(result.InsurancePoolLeft, 2))
	}
	if result.Agreements != nil {
		fmt.Printf("Trade agreements:  %d formed, %d expired, %d active\n",
			result.Agreements.TotalFormed, result.Agreements.TotalExpired, result.Agreements.ActiveCount)
	}
}
