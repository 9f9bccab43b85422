// Package fs holds the SD card file helpers shared by the installer.
package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
)

// CreateTree creates path and all missing parents.
func CreateTree(path string) error {
	return os.MkdirAll(path, 0755)
}

// CopyFile copies src to dst, creating dst's parent directories. dst is
// written to a temporary file first and renamed into place.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := CreateTree(filepath.Dir(dst)); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// CopyEntry is one line of a copy list.
type CopyEntry struct {
	From, To string
}

// ParseCopyList parses a copy list: one 'source|destination' pair per line,
// with blank lines and lines starting with '#' ignored.
func ParseCopyList(r io.Reader) ([]CopyEntry, error) {
	var res []CopyEntry
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		from, to, ok := strings.Cut(line, "|")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("line %d: expected 'source|destination', got %q", n, line)
		}
		res = append(res, CopyEntry{From: from, To: to})
	}
	return res, s.Err()
}

// CopyFiles applies the copy list at listPath. Paths in the list are relative
// to root (a leading slash is allowed). A missing list is not an error, and a
// failing entry does not stop the others from being copied.
func CopyFiles(root, listPath string) error {
	f, err := os.Open(listPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := ParseCopyList(f)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", listPath, err)
	}

	var errs error
	for _, e := range entries {
		from := filepath.Join(root, filepath.FromSlash(e.From))
		to := filepath.Join(root, filepath.FromSlash(e.To))
		glog.Infof("Copying %s to %s", e.From, e.To)
		if err := CopyFile(from, to); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("copying %s: %w", e.From, err))
		}
	}
	return errs
}

// WriteAtomic replaces path with data. The data is written to a temporary
// file next to path first, so readers see either the old or the new contents.
func WriteAtomic(path string, data []byte) error {
	if err := CreateTree(filepath.Dir(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// SaveToFile writes text followed by a newline to path.
func SaveToFile(text, path string) error {
	return WriteAtomic(path, []byte(text+"\n"))
}

// ReadWord returns the first whitespace-delimited word of the file at path, or
// an empty string if the file cannot be read or is empty.
func ReadWord(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	s.Split(bufio.ScanWords)
	if s.Scan() {
		return s.Text()
	}
	return ""
}

// IsEmptyDir reports whether path is a directory without entries. Errors are
// reported as not empty.
func IsEmptyDir(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	return err == io.EOF
}
