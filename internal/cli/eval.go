package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"ragagent/internal/usecase"
)

// evalCase is one question with its expected answer.
type evalCase struct {
	Question string `yaml:"question"`
	Expected string `yaml:"expected"`
}

var evalCmd = &cobra.Command{
	Use:   "eval [cases.yaml]",
	Short: "Evaluate answers against expected results",
	Long: `Run each question from a YAML case file through the ask pipeline and use
the language model to judge whether the produced answer is equivalent to
the expected one. The judgment is a best-effort oracle, not an exact match.

Case file format:
  - question: "What color is the sky?"
    expected: "The sky is blue."`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read case file: %w", err)
	}

	var cases []evalCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("failed to parse case file: %w", err)
	}
	if len(cases) == 0 {
		return fmt.Errorf("case file contains no cases")
	}

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

	synth := newSynthesizer(cfg)
	askUC := usecase.NewAskUseCase(
		embedder,
		newFallbackEmbedder(cfg),
		index,
		synth,
		cfg.Retrieve.TopK,
		newAnswerCache(cfg),
	)

	passed := 0
	for i, c := range cases {
		answer, err := askUC.Ask(c.Question)
		if err != nil {
			fmt.Printf("[%d/%d] FAIL  %s\n       error: %v\n", i+1, len(cases), c.Question, err)
			continue
		}

		if synth.EvaluateEquivalence(c.Question, c.Expected, answer.Answer) {
			passed++
			fmt.Printf("[%d/%d] PASS  %s\n", i+1, len(cases), c.Question)
		} else {
			fmt.Printf("[%d/%d] FAIL  %s\n", i+1, len(cases), c.Question)
			fmt.Printf("       expected: %s\n", c.Expected)
			fmt.Printf("       got:      %s\n", answer.Answer)
		}
	}

	fmt.Printf("\n%d/%d cases passed\n", passed, len(cases))
	return nil
}
