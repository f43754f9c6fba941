package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Keys use dot notation, e.g. remote.tenant_id or sync.interval_minutes.
Values that parse as integers or booleans are stored typed; comma-separated
values are stored as lists.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// redactedKeys are never echoed back in full.
var redactedKeys = map[string]bool{
	"remote.client_secret": true,
	"embedding.api_key":    true,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	keys := []string{
		"remote.tenant_id", "remote.client_id", "remote.client_secret",
		"remote.site_hostname", "remote.site_path", "remote.drive_name",
		"sync.scan_folders", "sync.interval_minutes", "sync.workers",
		"chunking.size", "chunking.overlap",
		"embedding.provider", "embedding.model", "embedding.base_url",
		"embedding.api_key", "embedding.dimensions",
	}
	sort.Strings(keys)

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if redactedKeys[key] {
			val = "********"
		}
		cmd.Printf("%-24s = %v\n", key, val)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if redactedKeys[key] {
		cmd.Printf("Set %s\n", key)
	} else {
		cmd.Printf("Set %s = %s\n", key, raw)
	}
	return nil
}

// parseConfigValue types raw CLI input: bools and integers are stored typed,
// comma-separated input becomes a list, everything else stays a string.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return raw
}
