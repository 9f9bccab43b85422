package extract

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/gmpack/aiou/pkg/progress"
)

type entry struct {
	name string
	data string
}

func makeZip(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := zip.NewWriter(f)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func makeTarXZ(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	xw, err := xz.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(xw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644, Size: int64(len(e.data)), Typeflag: tar.TypeReg}
		if e.name[len(e.name)-1] == '/' {
			hdr = &tar.Header{Name: e.name, Mode: 0755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(e.data))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, xw.Close())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	z := filepath.Join(dir, "a.zip")
	makeZip(t, z, []entry{{"a", "b"}})
	x := filepath.Join(dir, "a.tar.xz")
	makeTarXZ(t, x, []entry{{"a", "b"}})
	html := filepath.Join(dir, "error.html")
	require.NoError(t, os.WriteFile(html, []byte("<html>503</html>"), 0644))
	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("PK"), 0644))

	for _, te := range []struct {
		path string
		want Format
	}{
		{z, FormatZip},
		{x, FormatTarXZ},
		{html, FormatUnknown},
		{short, FormatUnknown},
	} {
		got, err := Detect(te.path)
		require.NoError(t, err)
		assert.Equal(t, te.want, got, te.path)
	}

	assert.True(t, IsArchive(z))
	assert.True(t, IsArchive(x))
	assert.False(t, IsArchive(html))
	assert.False(t, IsArchive(filepath.Join(dir, "missing.zip")))
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "ams.zip")
	makeZip(t, archive, []entry{
		{"atmosphere/", ""},
		{"atmosphere/package3", "pkg3"},
		{"atmosphere/config/system_settings.ini", "new settings"},
		{"bootloader/hekate_ipl.ini", "new hekate"},
	})
	dest := filepath.Join(dir, "sd")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "atmosphere", "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "atmosphere", "config", "system_settings.ini"), []byte("user settings"), 0644))

	var ev progress.Event
	require.NoError(t, Extract(archive, dest, Options{OverwriteInis: false, Progress: &ev}))
	assert.Equal(t, "pkg3", readFile(t, filepath.Join(dest, "atmosphere", "package3")))
	assert.Equal(t, "user settings", readFile(t, filepath.Join(dest, "atmosphere", "config", "system_settings.ini")))
	assert.Equal(t, "new hekate", readFile(t, filepath.Join(dest, "bootloader", "hekate_ipl.ini")), "missing inis are still created")
	s := ev.Snapshot()
	assert.Equal(t, int64(4), s.Now)
	assert.Equal(t, int64(4), s.Total)

	require.NoError(t, Extract(archive, dest, Options{OverwriteInis: true}))
	assert.Equal(t, "new settings", readFile(t, filepath.Join(dest, "atmosphere", "config", "system_settings.ini")))
}

func TestExtractTarXZ(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "translations.tar.xz")
	makeTarXZ(t, archive, []entry{
		{"0100000000010000/", ""},
		{"0100000000010000/romfs/text.msbt", "olá"},
	})
	dest := filepath.Join(dir, "contents")
	require.NoError(t, Extract(archive, dest, Options{}))
	assert.Equal(t, "olá", readFile(t, filepath.Join(dest, "0100000000010000", "romfs", "text.msbt")))
}

func TestExtractRejects(t *testing.T) {
	dir := t.TempDir()
	evil := filepath.Join(dir, "evil.zip")
	makeZip(t, evil, []entry{{"../escaped.txt", "gotcha"}})
	dest := filepath.Join(dir, "sd")
	require.Error(t, Extract(evil, dest, Options{}))
	assert.NoFileExists(t, filepath.Join(dir, "escaped.txt"))

	html := filepath.Join(dir, "error.html")
	require.NoError(t, os.WriteFile(html, []byte("<html>503</html>"), 0644))
	err := Extract(html, dest, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotArchive))
}

func TestTarget(t *testing.T) {
	got, err := target("/sd", "/atmosphere/contents")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/sd", "atmosphere", "contents"), got)

	got, err = target("/sd", "a/../b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/sd", "b"), got)

	_, err = target("/sd", "a/../../b")
	require.Error(t, err)
}
