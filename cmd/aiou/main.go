package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gmpack/aiou/pkg/app"
	"github.com/gmpack/aiou/pkg/format"
)

var rootCmd = &cobra.Command{
	Use:   "aiou",
	Short: "aiou installs firmware, Atmosphère and translation packs onto a Switch SD card",
	Long: `Downloads and installs firmware dumps, Atmosphère releases, the updater
itself and GMPack translation packs onto a mounted Switch SD card, and
inspects what is already installed there.

Power and boot requests are queued for the on-console helper, which carries
them out the next time it runs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseLog {
			slog.SetLogLoggerLevel(slog.LevelDebug)
			flag.Set("logtostderr", "true")
		}
	},
}

var (
	verboseLog bool
	flagRoot   string
	flagConfig string
	flagLocale string
	flagCFW    string
	flagYes    bool
)

func main() {
	def := app.DefaultInstallOptions()
	installCmd.Flags().BoolVar(&installFresh, "fresh", def.FreshInstall, "Clean install: remove everything but emuMMC and Nintendo from the SD card first (asks for every entry)")
	installCmd.Flags().BoolVar(&installOverwriteInis, "overwrite-inis", def.OverwriteInis, "Overwrite existing .ini configuration files")
	installCmd.Flags().BoolVar(&installDeleteFlags, "delete-flags", def.DeleteFlags, "Disable installed sysmodules by removing their boot2.flag")
	installCmd.Flags().BoolVar(&installAsk, "ask", false, "Ask for the three options above interactively")
	installCmd.Flags().BoolVar(&installKeepArchive, "keep-archive", false, "Keep the downloaded archive after installing")
	installCmd.Flags().StringVar(&installVersion, "version", "", "Record this as the installed version (eg. the release tag)")
	latestCmd.Flags().StringVarP(&latestType, "type", "t", "", "Compare with the installed version of this content type")
	infoCmd.Flags().StringVar(&infoPackURL, "pack-url", "", "URL of the newest pack_version.txt to compare with")
	formatTitleCmd.Flags().IntVarP(&formatMaxScore, "max", "m", 0, "Maximum title score (default: list item width)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verboseLog, "verbose", "V", false, "Enable verbose debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagRoot, "root", "r", "", "SD card mount point (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (default: $XDG_CONFIG_HOME/aiou/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "UI locale (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCFW, "cfw", "", "CFW in use: ams, rnx or sxos (default: detect)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer 'yes' to every question")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(cheatsCmd)
	translationsCmd.AddCommand(translationsStatusCmd)
	translationsCmd.AddCommand(translationsRemoveCmd)
	rootCmd.AddCommand(translationsCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(infoCmd)
	powerCmd.AddCommand(powerShutdownCmd)
	powerCmd.AddCommand(powerRebootCmd)
	powerCmd.AddCommand(powerPayloadCmd)
	rootCmd.AddCommand(powerCmd)
	formatCmd.AddCommand(formatTitleCmd)
	formatCmd.AddCommand(formatTIDCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(envCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
}

// parseTitleID parses a 64-bit title ID given in hex, with or without a 0x
// prefix.
func parseTitleID(s string) (uint64, error) {
	s = strings.TrimPrefix(format.Lower(s), "0x")
	res, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid title ID %q", s)
	}
	return res, nil
}
