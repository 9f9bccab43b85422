// Package app wires the updater together: one App is the context of a run
// against one SD card, and carries the install operations.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/gmpack/aiou/pkg/cfw"
	"github.com/gmpack/aiou/pkg/config"
	"github.com/gmpack/aiou/pkg/console"
	"github.com/gmpack/aiou/pkg/content"
	"github.com/gmpack/aiou/pkg/dialog"
	"github.com/gmpack/aiou/pkg/download"
	"github.com/gmpack/aiou/pkg/format"
	"github.com/gmpack/aiou/pkg/fs"
	"github.com/gmpack/aiou/pkg/i18n"
	"github.com/gmpack/aiou/pkg/progress"
)

type App struct {
	Layout   content.Layout
	CFW      cfw.Kind
	Console  console.Console
	Prompter dialog.Prompter
	Strings  *i18n.Catalog
	Progress *progress.Event
	Download *download.Client
	Journal  *fs.Journal
	// Forwarder is the SD-relative source of the forwarder installed with
	// application updates.
	Forwarder string
}

// New builds an App from configuration. Questions are asked through p.
func New(cfg *config.Config, p dialog.Prompter) (*App, error) {
	if fi, err := os.Stat(cfg.Root); err != nil {
		return nil, fmt.Errorf("SD root unavailable: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("SD root %s is not a directory", cfg.Root)
	}

	kind := cfw.Detect(cfg.Root)
	if cfg.CFW != "" {
		k, err := cfw.ParseKind(cfg.CFW)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	model, err := console.ParseProductModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	applet, err := console.ParseAppletType(cfg.Applet)
	if err != nil {
		return nil, err
	}

	strs, err := i18n.Load(cfg.Locale)
	if err != nil {
		return nil, err
	}

	layout := content.Layout{Root: cfg.Root}
	ev := &progress.Event{}
	return &App{
		Layout: layout,
		CFW:    kind,
		Console: &console.Host{
			Model:     model,
			Applet:    applet,
			Root:      cfg.Root,
			StatePath: cfg.StatePath,
		},
		Prompter: p,
		Strings:  strs,
		Progress: ev,
		Download: &download.Client{
			HTTP:      &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
			Progress:  ev,
		},
		Journal: &fs.Journal{
			Path: layout.Abs(content.LogFile),
			Now:  time.Now,
		},
		Forwarder: cfg.Forwarder,
	}, nil
}

func (a *App) tr(key string) string {
	return a.Strings.Tr(key)
}

func (a *App) log(format string, args ...any) {
	if err := a.Journal.Writef(format, args...); err != nil {
		glog.Warningf("Could not write journal: %v", err)
	}
}

// DownloadArchive downloads the archive for t from url to its place in the
// download directory. The HTTP status code is returned and also recorded in
// the progress event.
func (a *App) DownloadArchive(ctx context.Context, url string, t content.Type) (int, error) {
	dest := a.Layout.ArchivePath(t)
	if dest == "" {
		return 0, fmt.Errorf("don't know where to download a %s", t)
	}
	if err := fs.CreateTree(a.Layout.Abs(content.DownloadDir)); err != nil {
		return 0, fmt.Errorf("could not create download directory: %w", err)
	}
	a.Progress.SetMessage(fmt.Sprintf("Downloading %s", t))
	code, err := a.Download.File(ctx, url, dest)
	a.Progress.SetStatusCode(code)
	if err != nil {
		a.log("download of %s from %s failed: %v", t, url, err)
		return code, err
	}
	a.log("downloaded %s from %s", t, url)
	return code, nil
}

// LatestRelease returns the newest release at a GitHub API url.
func (a *App) LatestRelease(ctx context.Context, url string) (*download.Release, error) {
	return a.Download.Latest(ctx, url)
}

// InstalledVersion returns the version recorded by the last install of t, or
// an empty string.
func (a *App) InstalledVersion(t content.Type) string {
	p := a.Layout.VersionPath(t)
	if p == "" {
		return ""
	}
	return fs.ReadWord(p)
}

func (a *App) saveVersion(t content.Type, v string) error {
	p := a.Layout.VersionPath(t)
	if p == "" {
		return fmt.Errorf("cannot record a version for %s", t)
	}
	return fs.SaveToFile(v, p)
}

// ContentsPath is the per-title directory of the CFW in use.
func (a *App) ContentsPath() string {
	return cfw.ContentsPath(a.Layout.Root, a.CFW)
}

// ExistingCheats lists the title IDs that have cheats installed.
func (a *App) ExistingCheats() ([]string, error) {
	return cfw.CheatTitleIDs(a.ContentsPath())
}

// TranslationPresent reports whether any of the given translation title
// folders is installed.
func (a *App) TranslationPresent(folders []string) bool {
	present := cfw.TranslationPresent(a.ContentsPath(), folders)
	if present {
		a.log("translation present in %s", a.ContentsPath())
	}
	return present
}

// DoDelete removes installed content of type t. Only translations can be
// removed; folders are the title directories making them up, and nothing is
// removed if any of them is not a plain directory name. Progress is reported
// as one step per folder plus a final one.
func (a *App) DoDelete(folders []string, t content.Type) error {
	a.Progress.SetTotalSteps(len(folders) + 1)
	a.Progress.SetStep(0)
	defer a.Progress.IncrementStep(1)

	if t != content.Translations {
		return nil
	}
	for _, f := range folders {
		if err := cfw.CheckFolder(f); err != nil {
			return err
		}
	}
	var errs error
	contents := a.ContentsPath()
	for _, f := range folders {
		path := filepath.Join(contents, f)
		if err := os.RemoveAll(path); err != nil {
			errs = multierror.Append(errs, err)
		}
		a.log("deleting: %s", path)
		a.Progress.IncrementStep(1)
	}
	return errs
}

// PackVersion returns the installed pack version suffix, eg. " - GMPACK 7.2",
// or an empty string.
func (a *App) PackVersion() string {
	f, err := os.Open(a.Layout.Abs(content.PackVersionFile))
	if err != nil {
		return ""
	}
	defer f.Close()
	return format.PackVersion(f)
}

// RemotePackVersion fetches a pack version file from url and returns its
// version suffix like PackVersion does.
func (a *App) RemotePackVersion(ctx context.Context, url string) (string, error) {
	text, err := a.Download.String(ctx, url)
	if err != nil {
		return "", err
	}
	return format.PackVersion(strings.NewReader(text)), nil
}

func (a *App) IsErista() bool {
	return console.IsErista(a.Console.ProductModel())
}

func (a *App) IsApplet() bool {
	return console.IsApplet(a.Console.AppletType())
}

func (a *App) Shutdown(reboot bool) error {
	return a.Console.Shutdown(reboot)
}

// RebootToPayload reboots into the RCM payload at path, relative to the SD
// root. Non-Atmosphère CFWs need the legacy reboot method.
func (a *App) RebootToPayload(path string) error {
	return a.Console.RebootToPayload(console.SDPath(path), a.CFW != cfw.AMS)
}
