package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"ragagent/internal/usecase"
)

var (
	askQuestion string
	askTopK     int
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question against the index",
	Long: `Embed the question, retrieve the most relevant chunks, and synthesize a
grounded answer with the configured language model.

Examples:
  ragagent ask -q "What color is the sky?"
  ragagent ask -q "Summarize chapter 2" --top-k 10 --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	index, err := openIndex(GetRootDir(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer index.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	askUC := usecase.NewAskUseCase(
		embedder,
		newFallbackEmbedder(cfg),
		index,
		newSynthesizer(cfg),
		topK,
		newAnswerCache(cfg),
	)

	answer, err := askUC.Ask(askQuestion)
	if err != nil {
		if answer == nil {
			return err
		}
		// Retrieval succeeded but synthesis failed; show what was found.
		fmt.Printf("Warning: %v\n\n", err)
		fmt.Printf("Retrieved context (%d chunks from %s):\n",
			len(answer.ContextChunks), strings.Join(answer.Sources, ", "))
		for i, chunk := range answer.ContextChunks {
			fmt.Printf("--- [%d] (distance %.4f) ---\n%s\n\n", i+1, answer.SimilarityScores[i], chunk)
		}
		return nil
	}

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s\n", answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}

	return nil
}
