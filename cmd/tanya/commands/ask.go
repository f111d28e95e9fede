package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/kb"
)

// AskCmd resolves one utterance locally without starting the server
var AskCmd = &cobra.Command{
	Use:   "ask <utterance>",
	Short: "Resolve one utterance locally",
	Long:  `Run a single utterance through the resolution pipeline using the configured knowledge base, without starting the server. Repeated calls with the same --session share conversational context within one invocation only.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var askSessionID string

func init() {
	AskCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Config file path (overrides the default lookup)")
	AskCmd.Flags().StringVarP(&askSessionID, "session", "s", "cli", "Session id for conversational context")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	base, err := kb.Load(cfg.Knowledge.Path)
	if err != nil {
		return errors.Wrap(err, "failed to load knowledge base")
	}

	engine, _, store, err := buildEngine(cfg, base)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	res, err := engine.Resolve(cmd.Context(), askSessionID, args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to format result")
	}
	fmt.Println(string(out))
	return nil
}
