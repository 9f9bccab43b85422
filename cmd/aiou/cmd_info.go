package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gmpack/aiou/pkg/config"
	"github.com/gmpack/aiou/pkg/content"
	"github.com/gmpack/aiou/pkg/i18n"
)

var (
	infoPackURL string
	latestType  string
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what is installed on the SD card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendRows([]table.Row{
			{"SD root", a.Layout.Root},
			{"CFW", a.CFW},
			{"Contents", a.ContentsPath()},
			{"Model", a.Console.ProductModel()},
			{"Erista", a.IsErista()},
			{"Applet mode", a.IsApplet()},
			{"Pack version", orDash(a.PackVersion())},
		})
		if infoPackURL != "" {
			latest, err := a.RemotePackVersion(cmd.Context(), infoPackURL)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{"Latest pack version", orDash(latest)})
		}
		t.AppendSeparator()
		for _, ct := range content.Types {
			t.AppendRow(table.Row{ct.String() + " version", orDash(a.InstalledVersion(ct))})
		}
		t.Render()
		return nil
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest [api-url]",
	Short: "Show the newest release of a GitHub repository",
	Long:  "Show the tag and assets of a GitHub releases/latest API URL, eg. https://api.github.com/repos/Atmosphere-NX/Atmosphere/releases/latest.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		r, err := a.LatestRelease(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if r.Tag == "" {
			return fmt.Errorf("no release tag at %s", args[0])
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		tag := r.Tag
		if r.Prerelease {
			tag += " (prerelease)"
		}
		t.AppendHeader(table.Row{"Asset", "URL"})
		for _, as := range r.Assets {
			t.AppendRow(table.Row{as.Name, as.URL})
		}
		t.SetTitle(tag)
		if latestType != "" {
			ct, err := content.ParseType(latestType)
			if err != nil {
				return err
			}
			installed := a.InstalledVersion(ct)
			status := "up to date"
			if installed != r.Tag {
				status = "update available"
			}
			t.AppendFooter(table.Row{"Installed " + orDash(installed), status})
		}
		t.Render()
		return nil
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Describe the configuration file and environment variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := config.Usage()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\nLocales: %s\n\n%s\n", config.DefaultPath(), strings.Join(i18n.Locales(), ", "), u)
		return nil
	},
}
