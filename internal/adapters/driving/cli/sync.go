package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

var fullResync bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronisation cycle",
	Long: `Runs a single synchronisation cycle against the remote drive.

By default a delta cycle applies only the changes recorded since the stored
cursor. With --full the local index is rebuilt from scratch. A delta request
without a usable cursor falls back to a full rebuild automatically.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&fullResync, "full", false, "discard the index and rebuild from scratch")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if syncOrchestrator == nil {
		return errNotConfigured("sync service")
	}

	mode := domain.ModeDelta
	if fullResync {
		mode = domain.ModeFull
	}

	cmd.Printf("Starting %s sync...\n", mode)

	result, err := syncOrchestrator.RunCycle(cmd.Context(), mode)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync finished: %s\n", result)
	if result.Failed > 0 {
		return fmt.Errorf("%d items failed; they will be retried next cycle", result.Failed)
	}
	return nil
}
