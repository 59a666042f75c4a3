package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/bytebufferpool"

	"github.com/halfstats/ingestor/internal/app"
	"github.com/halfstats/ingestor/internal/config"
	"github.com/halfstats/ingestor/internal/domain/competition"
	"github.com/halfstats/ingestor/internal/domain/sheet"
	"github.com/halfstats/ingestor/internal/observability"
	"github.com/halfstats/ingestor/internal/platform/logging"
	"github.com/halfstats/ingestor/internal/usecase"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ingestor",
		Short:         "Per-half match statistics ingestor",
		Long:          "Fetches finished matches from the upstream statistics provider and appends two per-half rows per match to the durable sheet store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newLeaguesCommand())
	cmd.AddCommand(newMigrateCommand())

	return cmd
}

func newRunCommand() *cobra.Command {
	var (
		leagueName string
		modeFlag   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion pass for a league",
		Long: `Run one ingestion pass for a league.

Mode "from-scratch" clears the league's rows and sync index and rebuilds
everything; "update" appends only matches not yet recorded in the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := usecase.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			return runIngestion(leagueName, mode)
		},
	}

	cmd.Flags().StringVar(&leagueName, "league", "", "league name as registered (see the leagues command)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "from-scratch or update")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func runIngestion(leagueName string, mode usecase.Mode) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init profiler: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("profiler stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof server: %w", err)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	application, err := app.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() { _ = application.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := application.Ingest.Run(ctx, leagueName, mode)
	if err != nil {
		return err
	}

	fmt.Printf("league=%s mode=%s rounds=%d ingested=%d skipped=%d\n",
		summary.League, summary.Mode, summary.Rounds, summary.EventsIngested, summary.EventsSkipped)

	return nil
}

func newExportCommand() *cobra.Command {
	var (
		leagueName string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a league's stored rows as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportLeague(cmd.Context(), leagueName, outPath)
		},
	}

	cmd.Flags().StringVar(&leagueName, "league", "", "league name as registered")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (default stdout)")
	_ = cmd.MarkFlagRequired("league")

	return cmd
}

func exportLeague(ctx context.Context, leagueName, outPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	application, err := app.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() { _ = application.Close() }()

	if _, ok := application.Registry.Get(leagueName); !ok {
		return fmt.Errorf("unknown league %q", leagueName)
	}

	rows, err := application.Sheets.ListRows(ctx, leagueName)
	if err != nil {
		return fmt.Errorf("list rows: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.Write(sheet.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Cells); err != nil {
			return fmt.Errorf("write row %d: %w", row.Position, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	return nil
}

func newLeaguesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List the leagues the ingestor knows about",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range competition.DefaultRegistry().Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
