package cfw

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, AMS, Detect(root), "default")

	mkdir(t, filepath.Join(root, "sxos"))
	assert.Equal(t, SXOS, Detect(root))

	mkdir(t, filepath.Join(root, "ReiNX"))
	assert.Equal(t, ReiNX, Detect(root))

	mkdir(t, filepath.Join(root, "atmosphere"))
	assert.Equal(t, AMS, Detect(root))
}

func TestContentsPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/sd", "atmosphere", "contents"), ContentsPath("/sd", AMS))
	assert.Equal(t, filepath.Join("/sd", "ReiNX", "contents"), ContentsPath("/sd", ReiNX))
	assert.Equal(t, filepath.Join("/sd", "sxos", "titles"), ContentsPath("/sd", SXOS))
	assert.Equal(t, filepath.Join("/sd", "atmosphere", "contents"), ContentsPath("/sd", Kind("bogus")))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("SXOS")
	require.NoError(t, err)
	assert.Equal(t, SXOS, k)
	_, err = ParseKind("hekate")
	assert.Error(t, err)
}

func TestCheatTitleIDs(t *testing.T) {
	contents := filepath.Join(t.TempDir(), "contents")
	mkdir(t, filepath.Join(contents, "01006f8002326000", "cheats"))
	mkdir(t, filepath.Join(contents, "0100000000010000", "cheats"))
	mkdir(t, filepath.Join(contents, "0100000000010000", "exefs"))
	mkdir(t, filepath.Join(contents, "010000000000100D", "romfs"))
	mkdir(t, filepath.Join(contents, "short", "cheats"))

	got, err := CheatTitleIDs(contents)
	require.NoError(t, err)
	assert.Equal(t, []string{"0100000000010000", "01006F8002326000"}, got)

	got, err = CheatTitleIDs(filepath.Join(contents, "missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemoveSysmoduleFlags(t *testing.T) {
	contents := filepath.Join(t.TempDir(), "contents")
	touch(t, filepath.Join(contents, "420000000000000E", "flags", "boot2.flag"))
	touch(t, filepath.Join(contents, "4200000000000010", "flags", "boot2.flag"))
	touch(t, filepath.Join(contents, "4200000000000010", "exefs.nsp"))

	require.NoError(t, RemoveSysmoduleFlags(contents))
	assert.NoFileExists(t, filepath.Join(contents, "420000000000000E", "flags", "boot2.flag"))
	assert.NoFileExists(t, filepath.Join(contents, "4200000000000010", "flags", "boot2.flag"))
	assert.FileExists(t, filepath.Join(contents, "4200000000000010", "exefs.nsp"))

	assert.NoError(t, RemoveSysmoduleFlags(filepath.Join(contents, "missing")))
}

func TestRemoveSysmoduleFlagsMatchesNames(t *testing.T) {
	// Only file names count, not the directories leading to them.
	contents := filepath.Join(t.TempDir(), "boot2.flag.d", "contents")
	touch(t, filepath.Join(contents, "420000000000000E", "exefs.nsp"))
	touch(t, filepath.Join(contents, "420000000000000E", "flags", "boot2.flag"))

	require.NoError(t, RemoveSysmoduleFlags(contents))
	assert.FileExists(t, filepath.Join(contents, "420000000000000E", "exefs.nsp"))
	assert.NoFileExists(t, filepath.Join(contents, "420000000000000E", "flags", "boot2.flag"))
}

func TestCleanRoot(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"emuMMC", "Nintendo", "atmosphere", "switch", "bootloader", "config"} {
		mkdir(t, filepath.Join(root, d))
	}
	touch(t, filepath.Join(root, "hbmenu.nro"))

	var asked []string
	confirm := func(path string) (bool, error) {
		asked = append(asked, filepath.Base(path))
		return filepath.Base(path) != "bootloader", nil
	}
	require.NoError(t, CleanRoot(root, confirm, "config"))
	assert.ElementsMatch(t, []string{"atmosphere", "switch", "bootloader", "hbmenu.nro"}, asked)

	for _, kept := range []string{"emuMMC", "Nintendo", "bootloader", "config"} {
		assert.DirExists(t, filepath.Join(root, kept))
	}
	assert.NoDirExists(t, filepath.Join(root, "atmosphere"))
	assert.NoDirExists(t, filepath.Join(root, "switch"))
	assert.NoFileExists(t, filepath.Join(root, "hbmenu.nro"))

	boom := errors.New("boom")
	mkdir(t, filepath.Join(root, "switch"))
	err := CleanRoot(root, func(string) (bool, error) { return false, boom })
	assert.True(t, errors.Is(err, boom))
	assert.DirExists(t, filepath.Join(root, "switch"))
}

func TestTranslationPresent(t *testing.T) {
	contents := filepath.Join(t.TempDir(), "contents")
	mkdir(t, filepath.Join(contents, "0100000000010000"))
	assert.False(t, TranslationPresent(contents, []string{"0100000000010000", "missing"}))

	touch(t, filepath.Join(contents, "0100000000010000", "romfs", "text.msbt"))
	assert.True(t, TranslationPresent(contents, []string{"missing", "0100000000010000"}))
	assert.False(t, TranslationPresent(contents, nil))
	assert.False(t, TranslationPresent(filepath.Join(contents, "0100000000010000", "romfs"), []string{".."}))
}

func TestCheckFolder(t *testing.T) {
	assert.NoError(t, CheckFolder("0100000000010000"))
	for _, f := range []string{"", ".", "..", "../..", "a/b", `a\b`, "/atmosphere"} {
		assert.Error(t, CheckFolder(f), f)
	}
}
