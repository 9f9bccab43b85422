// Package extract unpacks downloaded content archives onto the SD card.
//
// Two formats are supported: zip, which is what every upstream release uses,
// and xz-compressed tarballs, which some translation packs ship as.
package extract

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/ulikunitz/xz"

	"github.com/gmpack/aiou/pkg/progress"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	xzMagic  = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ErrNotArchive is returned when a file that should be an archive is not one,
// eg. because the server returned an HTML error page.
var ErrNotArchive = errors.New("not an archive")

// Format is a supported archive format.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTarXZ
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarXZ:
		return "tar.xz"
	}
	return "unknown"
}

// Detect sniffs the format of the file at path from its magic bytes.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	var hdr [6]byte
	n, err := io.ReadFull(f, hdr[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	switch {
	case bytes.HasPrefix(hdr[:n], zipMagic):
		return FormatZip, nil
	case bytes.HasPrefix(hdr[:n], xzMagic):
		return FormatTarXZ, nil
	}
	return FormatUnknown, nil
}

// IsArchive reports whether path exists and is an archive this package can
// extract.
func IsArchive(path string) bool {
	f, err := Detect(path)
	return err == nil && f != FormatUnknown
}

// Options alter how an archive is extracted.
type Options struct {
	// OverwriteInis allows replacing .ini files that already exist at the
	// destination. When false, user configuration is preserved.
	OverwriteInis bool
	// Progress, if set, receives the number of entries extracted so far.
	Progress *progress.Event
}

// Extract unpacks archive into dest.
func Extract(archive, dest string, opts Options) error {
	format, err := Detect(archive)
	if err != nil {
		return fmt.Errorf("could not open archive: %w", err)
	}
	glog.Infof("Extracting %s (%s) to %s...", archive, format, dest)
	switch format {
	case FormatZip:
		return extractZip(archive, dest, opts)
	case FormatTarXZ:
		return extractTarXZ(archive, dest, opts)
	}
	return fmt.Errorf("%s: %w", archive, ErrNotArchive)
}

// target resolves an archive entry name under dest, refusing names that would
// escape it.
func target(dest, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(name, "/")))
	if clean == "." {
		return dest, nil
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes destination", name)
	}
	return filepath.Join(dest, clean), nil
}

// keep reports whether an existing file at path must not be overwritten.
func keep(path string, opts Options) bool {
	if opts.OverwriteInis || !strings.EqualFold(filepath.Ext(path), ".ini") {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func writeFile(path string, r io.Reader, mode os.FileMode, buf []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if mode.Perm() == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.CopyBuffer(out, r, buf); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func extractZip(archive, dest string, opts Options) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("could not read zip: %w", err)
	}
	defer r.Close()

	total := int64(len(r.File))
	if opts.Progress != nil {
		opts.Progress.SetCounters(0, total)
	}
	buf := make([]byte, 64*1024)
	for i, f := range r.File {
		path, err := target(dest, f.Name)
		if err != nil {
			return err
		}
		switch {
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		case keep(path, opts):
			glog.Infof("Keeping existing %s", f.Name)
		default:
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("could not open %q: %w", f.Name, err)
			}
			err = writeFile(path, rc, f.Mode(), buf)
			rc.Close()
			if err != nil {
				return fmt.Errorf("could not extract %q: %w", f.Name, err)
			}
		}
		if opts.Progress != nil {
			opts.Progress.SetCounters(int64(i+1), total)
		}
	}
	return nil
}

func extractTarXZ(archive, dest string, opts Options) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("could not read xz stream: %w", err)
	}
	tr := tar.NewReader(xr)
	buf := make([]byte, 64*1024)
	var done int64
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read tar: %w", err)
		}
		path, err := target(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if keep(path, opts) {
				glog.Infof("Keeping existing %s", hdr.Name)
				break
			}
			if err := writeFile(path, tr, hdr.FileInfo().Mode(), buf); err != nil {
				return fmt.Errorf("could not extract %q: %w", hdr.Name, err)
			}
		default:
			glog.Warningf("Skipping %s: unsupported tar entry type %q", hdr.Name, hdr.Typeflag)
		}
		done++
		if opts.Progress != nil {
			opts.Progress.SetCounters(done, 0)
		}
	}
}
