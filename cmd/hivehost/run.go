package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hiveml/hivehost/host"
	"github.com/hiveml/hivehost/hostapi"
	"github.com/hiveml/hivehost/infrastructure/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run <guest.wasm>",
	Short: "Run an experiment guest module",
	Long: `Instantiate a compiled experiment guest and invoke its entry export.

The guest drives training through the hive import namespace; runs it leaves
outstanding at exit are cancelled on the hive service during teardown.`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().String("orchestrator", "", "Hive service base URL (overrides config)")
	runCmd.Flags().String("entry", "run", "Guest entry export to invoke")
	runCmd.Flags().Duration("timeout", 0, "Overall guest execution timeout (0 means none)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if url, _ := cmd.Flags().GetString("orchestrator"); url != "" {
		cfg.OrchestratorURL = url
	}
	if cfg.OrchestratorURL == "" {
		fmt.Fprintln(os.Stderr, "Error: no orchestrator URL (set orchestrator_url in config or pass --orchestrator)")
		os.Exit(1)
	}

	wasmBytes, err := host.LoadGuestFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	trainer, err := orchestrator.NewClient(cfg.OrchestratorURL,
		orchestrator.WithTimeout(cfg.RequestTimeout),
		orchestrator.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	exec, err := host.NewExecutor(ctx,
		host.WithLogger(logger),
		host.WithHostModules(hostapi.TrainingHostModule()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer exec.Close(ctx)

	training := hostapi.NewTrainingModule(trainer,
		hostapi.WithTrainingLogger(logger),
		hostapi.WithStatusInterval(cfg.StatusInterval))

	guest, err := exec.Instantiate(ctx, wasmBytes, training)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer guest.Close(ctx)

	entry, _ := cmd.Flags().GetString("entry")
	start := time.Now()
	if _, err := guest.Call(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("guest finished", "entry", entry, "elapsed", time.Since(start))
}
