package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmpack/aiou/pkg/app"
	"github.com/gmpack/aiou/pkg/dialog"
	"github.com/gmpack/aiou/pkg/i18n"
)

func TestParseTitleID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint64
	}{
		{"0100000000001000", 0x0100000000001000},
		{"0x010000000000100d", 0x010000000000100D},
		{"0X1F", 0x1f},
	} {
		got, err := parseTitleID(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	_, err := parseTitleID("not-a-tid")
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("root: /media/sd\ncfw: ams\nlocale: en-US\n"), 0644))
	t.Setenv("AIOU_LOCALE", "pt-BR")

	flagConfig, flagRoot, flagLocale, flagCFW = p, dir, "", "sxos"
	t.Cleanup(func() { flagConfig, flagRoot, flagCFW = "", "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "sxos", cfg.CFW)
}

func TestPrompts(t *testing.T) {
	term := &app.App{Prompter: &dialog.Terminal{}}
	fixed := &app.App{Prompter: dialog.Fixed{Answer: 1}}

	assert.True(t, prompts(term, app.InstallOptions{FreshInstall: true}))
	assert.True(t, prompts(term, app.InstallOptions{Ask: true}))
	assert.False(t, prompts(term, app.DefaultInstallOptions()))
	assert.False(t, prompts(fixed, app.InstallOptions{FreshInstall: true, Ask: true}))
}

func TestReportRelaunch(t *testing.T) {
	strs, err := i18n.Load("en-US")
	require.NoError(t, err)
	var out bytes.Buffer
	a := &app.App{Prompter: dialog.Fixed{Answer: 1, Out: &out}, Strings: strs}

	require.NoError(t, report(a, &app.Result{}, nil))
	assert.Empty(t, out.String())

	require.NoError(t, report(a, &app.Result{Relaunch: true}, nil))
	assert.Equal(t, strs.Tr("menus/utils/restart")+"\n", out.String())
}
