package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the local chunk index",
	Long: `Runs a semantic similarity search against the locally indexed chunks.
The index is queried as-is; run sync first to pick up recent changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchTopK, "top", 5, "number of results to return")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if searchIndex == nil {
		return errNotConfigured("search index")
	}

	query := strings.Join(args, " ")
	results, err := searchIndex.Search(cmd.Context(), query, searchTopK)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}

	for i, res := range results {
		cmd.Printf("%d. [%.3f] item %s chunk %d\n", i+1, res.Score, res.Chunk.SourceItemID, res.Chunk.Position)
		cmd.Printf("   %s\n", firstLine(res.Chunk.Content))
	}
	return nil
}

// firstLine returns the first non-empty line of a chunk for display.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
