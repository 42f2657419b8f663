package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"ragagent/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "ragagent",
	Short: "Ingest text into a vector index and answer questions from it",
	Long: `ragagent ingests free text into searchable chunks, embeds them, stores
them in a local vector index, and answers natural-language questions by
retrieving the most relevant chunks and asking a language model to
synthesize a grounded answer.

Example usage:
  ragagent ingest notes/            # Ingest all text files in a directory
  ragagent ask -q "What is X?"      # Ask a question against the index
  ragagent stats                    # Show index statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ragagent.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
