// Package content describes the kinds of downloadable packages the updater
// knows how to install, and where each of them lives on the SD card.
package content

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gmpack/aiou/pkg/format"
)

// Type selects which downloadable package an operation applies to.
type Type string

const (
	Firmware     Type = "fw"
	App          Type = "app"
	AMS          Type = "ams_cfw"
	Translations Type = "translations"
)

func (t Type) String() string {
	switch t {
	case Firmware:
		return "Firmware"
	case App:
		return "Application"
	case AMS:
		return "Atmosphère"
	case Translations:
		return "Translations"
	}
	return "UNKNOWN"
}

// Types lists every known content type, in menu order.
var Types = []Type{Firmware, App, AMS, Translations}

// ParseType returns the Type with the given short name (eg. 'fw').
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == format.Lower(s) {
			return t, nil
		}
	}
	var opts []string
	for _, t := range Types {
		opts = append(opts, string(t))
	}
	sort.Strings(opts)
	return "", fmt.Errorf("invalid content type %q, must be one of: %s", s, strings.Join(opts, ", "))
}

// SD-relative paths used by the updater.
const (
	ConfigDir       = "config/aio-switch-updater"
	DownloadDir     = ConfigDir
	FirmwareArchive = DownloadDir + "/firmware.zip"
	AppArchive      = DownloadDir + "/app.zip"
	AMSArchive      = DownloadDir + "/ams.zip"
	TranslationsZip = ConfigDir + "/translations.zip"
	FirmwareDir     = "firmware"
	ForwarderPath   = ConfigDir + "/aiosu-forwarder.nro"
	CopyFilesList   = ConfigDir + "/copy_files.txt"
	LogFile         = ConfigDir + "/log.txt"
	PackVersionFile = "atmosphere/pack_version.txt"
	AMSContents     = "atmosphere/contents"
)

// Layout resolves the SD-relative paths above against a concrete SD root.
type Layout struct {
	Root string
}

// Abs returns rel rooted at the SD root.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// ArchivePath returns where the archive for t is downloaded to, or an empty
// string for an unknown type.
func (l Layout) ArchivePath(t Type) string {
	switch t {
	case Firmware:
		return l.Abs(FirmwareArchive)
	case App:
		return l.Abs(AppArchive)
	case AMS:
		return l.Abs(AMSArchive)
	case Translations:
		return l.Abs(TranslationsZip)
	}
	return ""
}

// VersionPath returns where the installed version of t is recorded, or an
// empty string for an unknown type.
func (l Layout) VersionPath(t Type) string {
	for _, k := range Types {
		if k == t {
			return l.Abs(ConfigDir + "/" + string(t) + "_version.txt")
		}
	}
	return ""
}

// Validated reports whether archives of type t must be checked to actually be
// archives before extraction.
func (t Type) Validated() bool {
	switch t {
	case Firmware, App, AMS:
		return true
	}
	return false
}
