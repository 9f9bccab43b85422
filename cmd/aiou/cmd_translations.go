package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gmpack/aiou/pkg/content"
	"github.com/gmpack/aiou/pkg/dialog"
)

var translationsCmd = &cobra.Command{
	Use:   "translations",
	Short: "Inspect or remove installed translation packs",
}

var translationsStatusCmd = &cobra.Command{
	Use:   "status [folder...]",
	Short: "Check whether a translation pack is installed",
	Long:  "Check whether any of the given title folders of a translation pack exists under the CFW contents directory.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if a.TranslationPresent(args) {
			fmt.Println("installed")
		} else {
			fmt.Println("not installed")
		}
		return nil
	},
}

var translationsRemoveCmd = &cobra.Command{
	Use:   "remove [folder...]",
	Short: "Remove the title folders of a translation pack",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ok, err := dialog.Confirm(a.Prompter, fmt.Sprintf("Remove %d folder(s) from %s?", len(args), a.ContentsPath()),
			a.Strings.Tr("menus/common/no"), a.Strings.Tr("menus/common/yes"))
		if err != nil {
			return err
		}
		if !ok {
			slog.Info("Cancelled.")
			return nil
		}
		err = withProgress(cmd.Context(), a.Progress, "Removing", func(ctx context.Context) error {
			return a.DoDelete(args, content.Translations)
		})
		if err != nil {
			return fmt.Errorf("removal failed: %w", err)
		}
		slog.Info("Done.")
		return nil
	},
}
