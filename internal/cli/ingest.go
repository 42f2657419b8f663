package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"ragagent/internal/adapter/chunker"
	"ragagent/internal/adapter/fs"
	"ragagent/internal/domain"
	"ragagent/internal/usecase"
)

var (
	ingestSource string
	ingestPage   int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a text file or directory into the index",
	Long: `Ingest text into the vector index. The path may be a single file or a
directory; directories are walked for text files matching the configured
include patterns. Re-ingesting the same content is a no-op.

Examples:
  ragagent ingest notes.txt
  ragagent ingest docs/ --page 0`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source label (default is the file name)")
	ingestCmd.Flags().IntVar(&ingestPage, "page", 0, "page number to record for the ingested text")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
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

	recorder := chunker.NewFallbackRecorder()
	chk, err := newChunker(cfg, recorder)
	if err != nil {
		return err
	}

	ingestUC := usecase.NewIngestUseCase(chk, embedder, newFallbackEmbedder(cfg), index, recorder, nil)

	total := &domain.IngestResult{}

	if info.IsDir() {
		walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
		files, err := walker.Walk(path)
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
		if len(files) == 0 {
			fmt.Println("No text files found.")
			return nil
		}

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)

		for i, file := range files {
			text, err := fs.ReadFile(file.Path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Path, err)
			}
			source, err := filepath.Rel(path, file.Path)
			if err != nil {
				source = file.Path
			}
			result, err := ingestUC.Ingest(text, source, ingestPage)
			if err != nil {
				return fmt.Errorf("failed to ingest %s: %w", source, err)
			}
			accumulate(total, result)
			bar.Set(i + 1)
		}
	} else {
		text, err := fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		source := ingestSource
		if source == "" {
			source = filepath.Base(path)
		}
		result, err := ingestUC.Ingest(text, source, ingestPage)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		accumulate(total, result)
	}

	fmt.Printf("Ingestion complete:\n")
	fmt.Printf("  Chunks created: %d\n", total.ChunksCreated)
	fmt.Printf("  Inserted:       %d\n", total.Inserted)
	fmt.Printf("  Duplicates:     %d (skipped)\n", total.Duplicates)

	if len(total.Notes) > 0 {
		fmt.Printf("\nNotes:\n")
		for _, n := range total.Notes {
			fmt.Printf("  - %s\n", n)
		}
	}

	return nil
}

func accumulate(total, r *domain.IngestResult) {
	total.ChunksCreated += r.ChunksCreated
	total.Inserted += r.Inserted
	total.Duplicates += r.Duplicates
	total.Notes = append(total.Notes, r.Notes...)
}
