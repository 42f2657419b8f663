package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	index, err := openIndex(GetRootDir(), GetConfig())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer index.Close()

	stats, err := index.Stats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Total chunks: %d\n", stats.TotalChunks)
	if stats.Model != "" {
		fmt.Printf("Embedding model: %s (dimension %d)\n", stats.Model, stats.Dimension)
	} else {
		fmt.Println("Embedding model: not recorded (index is empty)")
	}

	return nil
}
