// Package cfw knows where the supported custom firmwares keep their files on
// the SD card, and implements the sweeps the installer runs over them.
package cfw

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/gmpack/aiou/pkg/format"
	aiofs "github.com/gmpack/aiou/pkg/fs"
)

// Kind is a custom firmware.
type Kind string

const (
	AMS   Kind = "ams"
	ReiNX Kind = "rnx"
	SXOS  Kind = "sxos"
)

func (k Kind) String() string {
	switch k {
	case AMS:
		return "Atmosphère"
	case ReiNX:
		return "ReiNX"
	case SXOS:
		return "SX OS"
	}
	return "UNKNOWN"
}

// Description of where a CFW keeps things, relative to the SD root.
type Description struct {
	Kind Kind
	// Dir is the CFW's top-level directory, which is also used to detect it.
	Dir string
	// Contents is the per-title directory (LayeredFS, cheats, sysmodules).
	Contents string
}

// Descriptions are ordered by detection priority.
var Descriptions = []Description{
	{Kind: AMS, Dir: "atmosphere", Contents: "atmosphere/contents"},
	{Kind: ReiNX, Dir: "ReiNX", Contents: "ReiNX/contents"},
	{Kind: SXOS, Dir: "sxos", Contents: "sxos/titles"},
}

func (k Kind) Description() (Description, bool) {
	for _, d := range Descriptions {
		if d.Kind == k {
			return d, true
		}
	}
	return Description{}, false
}

// ParseKind accepts the short CFW names ('ams', 'rnx', 'sxos').
func ParseKind(s string) (Kind, error) {
	for _, d := range Descriptions {
		if string(d.Kind) == format.Lower(s) {
			return d.Kind, nil
		}
	}
	return "", fmt.Errorf("unknown CFW %q, must be one of: ams, rnx, sxos", s)
}

// Detect guesses the CFW in use from the directories present on the SD card
// at root. Atmosphère is assumed if none is found.
func Detect(root string) Kind {
	for _, d := range Descriptions {
		if fi, err := os.Stat(filepath.Join(root, d.Dir)); err == nil && fi.IsDir() {
			return d.Kind
		}
	}
	return AMS
}

// ContentsPath returns the per-title directory of CFW k on the SD card at
// root.
func ContentsPath(root string, k Kind) string {
	d, ok := k.Description()
	if !ok {
		d, _ = AMS.Description()
	}
	return filepath.Join(root, filepath.FromSlash(d.Contents))
}

const titleIDLength = 16

// CheatTitleIDs returns the uppercase title IDs under contents that have a
// cheats directory, sorted. A missing contents directory has no cheats.
func CheatTitleIDs(contents string) ([]string, error) {
	entries, err := os.ReadDir(contents)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var res []string
	for _, e := range entries {
		name := e.Name()
		if len(name) < titleIDLength {
			continue
		}
		if _, err := os.Stat(filepath.Join(contents, name, "cheats")); err != nil {
			continue
		}
		tid := format.Upper(name[len(name)-titleIDLength:])
		if !seen[tid] {
			seen[tid] = true
			res = append(res, tid)
		}
	}
	sort.Strings(res)
	return res, nil
}

const sysmoduleFlag = "boot2.flag"

// RemoveSysmoduleFlags deletes every boot2.flag below dir, which stops the
// corresponding sysmodules from being started at boot.
func RemoveSysmoduleFlags(dir string) error {
	var errs error
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			errs = multierror.Append(errs, err)
			return nil
		}
		if d.IsDir() || !strings.Contains(d.Name(), sysmoduleFlag) {
			return nil
		}
		glog.Infof("Removing %s", path)
		if err := os.Remove(path); err != nil {
			errs = multierror.Append(errs, err)
		}
		return nil
	})
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

// Preserved are the top-level SD entries a clean install never touches: the
// emuMMC image and the console's own data.
var Preserved = []string{"emuMMC", "Nintendo"}

// CleanRoot removes every top-level entry of root except Preserved and keep.
// confirm is asked about every entry first; entries it declines are left
// alone.
func CleanRoot(root string, confirm func(path string) (bool, error), keep ...string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	skip := make(map[string]bool)
	for _, k := range append(append([]string{}, Preserved...), keep...) {
		skip[k] = true
	}
	var errs error
	for _, e := range entries {
		if skip[e.Name()] {
			continue
		}
		path := filepath.Join(root, e.Name())
		ok, err := confirm(path)
		if err != nil {
			return multierror.Append(errs, err)
		}
		if !ok {
			continue
		}
		glog.Infof("Removing %s", path)
		if err := os.RemoveAll(path); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// CheckFolder returns an error unless f names a single entry directly below a
// contents directory.
func CheckFolder(f string) error {
	if f == "" || f == "." || f == ".." || strings.ContainsAny(f, `/\`) || filepath.IsAbs(f) {
		return fmt.Errorf("invalid title folder %q", f)
	}
	return nil
}

// TranslationPresent reports whether any of folders exists under contents
// and is not empty. Invalid folder names are ignored.
func TranslationPresent(contents string, folders []string) bool {
	for _, f := range folders {
		if CheckFolder(f) != nil {
			continue
		}
		path := filepath.Join(contents, f)
		if fi, err := os.Stat(path); err == nil && fi.IsDir() && !aiofs.IsEmptyDir(path) {
			return true
		}
	}
	return false
}
