package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"snaplink/internal/media"
	"snaplink/internal/ui"
)

var flagJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve a link and print its media assets",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveRun,
}

func init() {
	resolveCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the response shape as JSON")
}

func resolveRun(cmd *cobra.Command, args []string) error {
	svc, closeHistory, err := newService()
	if err != nil {
		return err
	}
	defer closeHistory()

	result, err := svc.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(media.Shape(result))
	}
	fmt.Fprint(out, ui.RenderResult(result))
	return nil
}
