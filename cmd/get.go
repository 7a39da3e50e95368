package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"snaplink/internal/download"
	"snaplink/internal/logging"
	"snaplink/internal/media"
	"snaplink/internal/ui"
)

var (
	flagIndex  int
	flagOutput string
)

var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Resolve a link and download one of its assets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  getRun,
}

func init() {
	getCmd.Flags().IntVarP(&flagIndex, "index", "i", 0, "Asset number to download (1-based, skips the picker)")
	getCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default from config)")
}

func getRun(cmd *cobra.Command, args []string) error {
	interactive := logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stderr)

	var rawURL string
	if len(args) == 1 {
		rawURL = args[0]
	} else {
		if !interactive {
			return fmt.Errorf("no url provided")
		}
		var err error
		if rawURL, err = ui.Input("URL"); err != nil {
			return err
		}
	}

	svc, closeHistory, err := newService()
	if err != nil {
		return err
	}
	defer closeHistory()

	result, err := svc.Resolve(cmd.Context(), rawURL)
	if err != nil {
		return err
	}

	idx, err := pickAsset(result, interactive)
	if err != nil {
		return err
	}
	asset := result.Assets[idx]
	debugf("selected asset %d: %s %s", idx+1, asset.Type, asset.Quality)

	dir := flagOutput
	if dir == "" {
		if dir, err = cfg.ExpandDownloadDir(); err != nil {
			return err
		}
	}

	name := download.Filename(result, asset)
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil && interactive {
		ok, err := ui.Confirm(fmt.Sprintf("Overwrite %s?", name))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	progress := ui.NewProgress(os.Stderr, name, interactive)
	path, err := download.Save(cmd.Context(), newRelay(), result, asset, download.Options{
		Dir:      dir,
		Progress: progress.Update,
	})
	progress.Done(err)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// pickAsset honours --index, skips the picker for a single asset and asks
// otherwise.
func pickAsset(r *media.Result, interactive bool) (int, error) {
	if flagIndex != 0 {
		if flagIndex < 1 || flagIndex > len(r.Assets) {
			return -1, fmt.Errorf("--index %d out of range (1-%d)", flagIndex, len(r.Assets))
		}
		return flagIndex - 1, nil
	}
	if len(r.Assets) == 1 {
		return 0, nil
	}
	if !interactive {
		return -1, errors.New("several assets found; choose one with --index")
	}
	return ui.Select("Asset", ui.AssetLabels(r))
}
