// Package cli provides the chunksync command line interface. Commands talk
// to the core services through ports; wiring happens once per invocation in
// ensureServices.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/rivergate-labs/chunksync/internal/adapters/driven/config/file"
	"github.com/rivergate-labs/chunksync/internal/adapters/driven/cursorfile"
	"github.com/rivergate-labs/chunksync/internal/adapters/driven/embedding"
	"github.com/rivergate-labs/chunksync/internal/adapters/driven/graph"
	"github.com/rivergate-labs/chunksync/internal/adapters/driven/index/sqlite"
	"github.com/rivergate-labs/chunksync/internal/chunkers"
	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driving"
	"github.com/rivergate-labs/chunksync/internal/core/services"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Wired by ensureServices; tests substitute
// doubles directly.
var (
	configStore      driven.ConfigStore
	cursorStore      driven.CursorStore
	chunkIndex       driven.ChunkIndex
	syncOrchestrator driving.SyncOrchestrator
	indexSignal      *services.IndexSignal
	searchIndex      chunkSearcher
)

// chunkSearcher is the read-side query surface of the persistent index.
type chunkSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error)
}

var (
	verboseFlag   bool
	configDirFlag string
	dataDirFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "chunksync",
	Short: "Keep a local chunk index in sync with a remote document drive",
	Long: `chunksync maintains a locally persisted, chunk-level semantic index of a
remote versioned document drive. Delta cycles pull only what changed since
the stored cursor; a full resync rebuilds the index from scratch.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default ~/.chunksync)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.chunksync/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureConfig loads the config store if no test or caller injected one.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	store, err := configfile.NewConfigStore(configDirFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store
	return nil
}

// ensureServices wires the full sync stack from configuration. Idempotent;
// commands call it before touching any service.
func ensureServices() error {
	if syncOrchestrator != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	// Validate remote credentials before anything touches the data dir.
	client, err := graph.NewClient(graph.Config{
		TenantID:     configStore.GetString("remote.tenant_id"),
		ClientID:     configStore.GetString("remote.client_id"),
		ClientSecret: configStore.GetString("remote.client_secret"),
		SiteHostname: configStore.GetString("remote.site_hostname"),
		SitePath:     configStore.GetString("remote.site_path"),
		DriveName:    configStore.GetString("remote.drive_name"),
		ScanFolders:  configStore.GetStringSlice("sync.scan_folders"),
	})
	if err != nil {
		return fmt.Errorf("configuring remote client: %w", err)
	}

	embedder, err := embedding.NewFromConfig(configStore)
	if err != nil {
		return err
	}

	index, err := sqlite.NewStore(dataDirFlag, embedder)
	if err != nil {
		return fmt.Errorf("opening chunk index: %w", err)
	}

	cursors, err := cursorfile.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("opening cursor store: %w", err)
	}

	registry := chunkers.NewRegistry(
		configStore.GetInt("chunking.size"),
		configStore.GetInt("chunking.overlap"),
	)

	reconciler := services.NewReconciler(client, registry, index, cursors,
		configStore.GetInt("sync.workers"))

	indexSignal = services.NewIndexSignal()
	syncOrchestrator = services.NewOrchestrator(client, cursors, index, reconciler, indexSignal)
	chunkIndex = index
	cursorStore = cursors
	searchIndex = index
	return nil
}

// syncInterval reads the configured scheduler interval.
func syncInterval() time.Duration {
	if configStore == nil {
		return services.DefaultSyncInterval
	}
	if minutes := configStore.GetInt("sync.interval_minutes"); minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	return services.DefaultSyncInterval
}

// errNotConfigured standardises the message commands return when wiring is
// absent and cannot be built.
func errNotConfigured(what string) error {
	return errors.New(what + " not configured")
}
