package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and cursor state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if chunkIndex == nil || cursorStore == nil {
		return errNotConfigured("index")
	}

	count, err := chunkIndex.Count(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Indexed chunks: %d\n", count)

	cursor, err := cursorStore.Load()
	switch {
	case err != nil:
		return err
	case cursor == nil:
		cmd.Println("Cursor: none (next delta sync falls back to a full rebuild)")
	case cursor.UpdatedAt.IsZero():
		cmd.Println("Cursor: present")
	default:
		cmd.Printf("Cursor: updated %s ago\n", time.Since(cursor.UpdatedAt).Round(time.Second))
	}

	if indexSignal != nil {
		cmd.Printf("Index version: %d\n", indexSignal.Version())
	}
	if syncOrchestrator != nil && syncOrchestrator.Running() {
		cmd.Println("Sync: a cycle is running now")
	}
	return nil
}
