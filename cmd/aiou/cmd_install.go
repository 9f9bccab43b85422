package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gmpack/aiou/pkg/app"
	"github.com/gmpack/aiou/pkg/content"
	"github.com/gmpack/aiou/pkg/dialog"
	"github.com/gmpack/aiou/pkg/download"
	"github.com/gmpack/aiou/pkg/extract"
)

var (
	installFresh         bool
	installOverwriteInis bool
	installDeleteFlags   bool
	installAsk           bool
	installKeepArchive   bool
	installVersion       string
)

func installOptions() app.InstallOptions {
	return app.InstallOptions{
		FreshInstall:  installFresh,
		OverwriteInis: installOverwriteInis,
		DeleteFlags:   installDeleteFlags,
		Ask:           installAsk,
		KeepArchive:   installKeepArchive,
		Version:       installVersion,
	}
}

// prompts reports whether installing with opts may ask questions on the
// terminal, which the progress bar would draw over.
func prompts(a *app.App, opts app.InstallOptions) bool {
	if _, ok := a.Prompter.(*dialog.Terminal); !ok {
		return false
	}
	return opts.Ask || opts.FreshInstall
}

// report logs the outcome of an install in the user's terms.
func report(a *app.App, res *app.Result, err error) error {
	var se *download.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Errorf("download failed: %s", download.ErrorMessage(se.Code))
	case errors.Is(err, extract.ErrNotArchive):
		return err
	case err != nil:
		return fmt.Errorf("install failed: %w", err)
	}
	slog.Info("Done.")
	if res != nil && res.Relaunch {
		return a.Prompter.Info(a.Strings.Tr("menus/utils/restart"))
	}
	return nil
}

var downloadCmd = &cobra.Command{
	Use:   "download [type] [url]",
	Short: "Download an archive to the SD card without installing it",
	Long:  "Download an archive of the given type (fw, app, ams_cfw, translations) to its place in the updater's config directory.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := content.ParseType(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		err = withProgress(cmd.Context(), a.Progress, "Downloading", func(ctx context.Context) error {
			_, err := a.DownloadArchive(ctx, args[1], t)
			return err
		})
		if err != nil {
			return report(a, nil, err)
		}
		slog.Info("Downloaded", "type", t, "path", a.Layout.ArchivePath(t), "status", a.Progress.StatusCode())
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install [type] [url]",
	Short: "Download and install an archive",
	Long:  "Download an archive of the given type and install it onto the SD card. Without a URL, the previously downloaded archive is installed.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := content.ParseType(args[0])
		if err != nil {
			return err
		}
		url := ""
		if len(args) > 1 {
			url = args[1]
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		opts := installOptions()
		if prompts(a, opts) {
			res, err := a.Install(cmd.Context(), url, t, opts)
			return report(a, res, err)
		}
		var res *app.Result
		err = withProgress(cmd.Context(), a.Progress, "Installing "+t.String(), func(ctx context.Context) error {
			var err error
			res, err = a.Install(ctx, url, t, opts)
			return err
		})
		return report(a, res, err)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [type]",
	Short: "Install a previously downloaded archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := content.ParseType(args[0])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		res, err := a.ExtractArchive(t, installOptions())
		return report(a, res, err)
	},
}
