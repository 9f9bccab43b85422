package main

import (
	"os"

	"github.com/gmpack/aiou/pkg/app"
	"github.com/gmpack/aiou/pkg/config"
	"github.com/gmpack/aiou/pkg/dialog"
)

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagRoot != "" {
		cfg.Root = flagRoot
	}
	if flagLocale != "" {
		cfg.Locale = flagLocale
	}
	if flagCFW != "" {
		cfg.CFW = flagCFW
	}
	return cfg, nil
}

func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	var p dialog.Prompter = &dialog.Terminal{In: os.Stdin, Out: os.Stdout}
	if flagYes {
		p = dialog.Fixed{Answer: 1, Out: os.Stdout}
	}
	a, err := app.New(cfg, p)
	if err != nil {
		return nil, err
	}
	if t, ok := p.(*dialog.Terminal); ok {
		t.OK = a.Strings.Tr("menus/common/ok")
	}
	return a, nil
}
