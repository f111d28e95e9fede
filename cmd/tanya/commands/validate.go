package commands

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wicaksana/tanya/errors"
	"github.com/wicaksana/tanya/kb"
)

// ValidateCmd checks a knowledge file without starting the server
var ValidateCmd = &cobra.Command{
	Use:   "validate <knowledge-file>",
	Short: "Validate a knowledge file and print its stats",
	Long:  `Load a knowledge XML file through the same loader the server uses, reporting validation errors and non-fatal warnings.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	base, err := kb.Load(path)
	if err != nil {
		return errors.Wrapf(err, "validation failed for %s", path)
	}

	stats := base.Stats()
	pterm.Success.Printfln("Knowledge file %s is valid", path)

	table := pterm.TableData{
		{"Languages", strings.Join(stats.Languages, ", ")},
		{"Intents", strconv.Itoa(stats.Intents)},
		{"Entities", strconv.Itoa(stats.Entities)},
		{"Items", strconv.Itoa(stats.Items)},
		{"Context items", strconv.Itoa(stats.ContextItems)},
		{"Contexts", strconv.Itoa(stats.Contexts)},
		{"Tokenizer", base.Settings.Tokenizer},
		{"Default language", base.Settings.DefaultLanguage},
	}
	pterm.DefaultTable.WithData(table).Render()

	for _, warning := range base.Warnings() {
		pterm.Warning.Printfln("%s", warning)
	}
	return nil
}
