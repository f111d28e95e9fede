package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wicaksana/tanya/cmd/tanya/commands"
	"github.com/wicaksana/tanya/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tanya",
	Short: "tanya - scripted dialogue resolution engine",
	Long: `tanya - a single-turn dialogue resolution engine for scripted
conversational agents.

Given an utterance and a session id, tanya selects the most relevant answer
from a static knowledge base through a tiered matching pipeline, tracks
per-session conversational context, and falls back through external and
static tiers when no local answer is confident enough.

Examples:
  tanya serve                          # Start the HTTP/WebSocket server
  tanya validate knowledge.xml         # Check a knowledge file and print stats
  tanya ask "bagaimana cuaca hari ini" # Resolve one utterance locally
  tanya version                        # Show build information`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.AskCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
