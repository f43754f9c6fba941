package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/rivergate-labs/chunksync/internal/adapters/driven/config/file"
	"github.com/rivergate-labs/chunksync/internal/core/services"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

var intervalFlag time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run delta sync cycles on an interval",
	Long: `Runs in the foreground and triggers a delta sync cycle on a fixed
interval. A trigger that fires while the previous cycle is still running is
skipped, never queued. Edits to the config file are picked up without a
restart. Stop with Ctrl-C.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVar(&intervalFlag, "interval", 0,
		"time between delta cycles (overrides sync.interval_minutes)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if syncOrchestrator == nil {
		return errNotConfigured("sync service")
	}

	interval := intervalFlag
	if interval == 0 {
		interval = syncInterval()
	}
	scheduler := services.NewScheduler(syncOrchestrator, interval)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Interval edits in config.toml reach the running scheduler through the
	// file watcher. The --interval flag wins for this invocation.
	if store, ok := configStore.(*configfile.ConfigStore); ok && intervalFlag == 0 {
		watcher, err := configfile.NewWatcher(store, func() {
			scheduler.SetInterval(syncInterval())
		})
		if err != nil {
			logger.Warn("config watching disabled: %v", err)
		} else {
			defer watcher.Close()
			if err := watcher.Start(ctx); err != nil {
				logger.Warn("config watching disabled: %v", err)
			}
		}
	}

	cmd.Printf("Scheduling delta sync every %s. Press Ctrl-C to stop.\n", scheduler.Interval())

	if err := scheduler.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	cmd.Println("Scheduler stopped.")
	return nil
}
