package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/gmpack/aiou/pkg/cfw"
	"github.com/gmpack/aiou/pkg/content"
	"github.com/gmpack/aiou/pkg/dialog"
	"github.com/gmpack/aiou/pkg/extract"
	"github.com/gmpack/aiou/pkg/fs"
)

// InstallOptions control a CFW package install. They are ignored for other
// content types.
type InstallOptions struct {
	// FreshInstall removes everything from the SD card but the emuMMC and
	// Nintendo folders before extracting, asking about every entry.
	FreshInstall bool
	// OverwriteInis replaces existing .ini configuration files.
	OverwriteInis bool
	// DeleteFlags removes the boot2.flag of every installed sysmodule.
	DeleteFlags bool
	// Ask overrides the three options above with the user's answers.
	Ask bool
	// KeepArchive leaves the downloaded archive in place after Install.
	KeepArchive bool
	// Version, if set, is recorded as the installed version once Install
	// succeeded.
	Version string
}

// DefaultInstallOptions are the options a CFW update uses unless told
// otherwise.
func DefaultInstallOptions() InstallOptions {
	return InstallOptions{
		FreshInstall:  false,
		OverwriteInis: true,
		DeleteFlags:   true,
	}
}

// Result of an extraction.
type Result struct {
	// Relaunch is set when the updater itself was replaced and has to exit so
	// that the forwarder can start the new version.
	Relaunch bool
}

func (a *App) confirm(key string) (bool, error) {
	if a.Prompter == nil {
		return false, fmt.Errorf("cannot ask %q: no prompter", key)
	}
	return dialog.Confirm(a.Prompter, a.tr(key), a.tr("menus/common/no"), a.tr("menus/common/yes"))
}

// ask replaces opts with the user's answers.
func (a *App) ask(opts *InstallOptions) error {
	var err error
	if opts.FreshInstall, err = a.confirm("menus/utils/fresh_install"); err != nil {
		return err
	}
	if opts.OverwriteInis, err = a.confirm("menus/utils/overwrite_inis"); err != nil {
		return err
	}
	if opts.DeleteFlags, err = a.confirm("menus/utils/delete_sysmodules_flags"); err != nil {
		return err
	}
	return nil
}

// checkArchive refuses to continue with a downloaded file that is not an
// archive.
func (a *App) checkArchive(t content.Type) error {
	if !t.Validated() {
		return nil
	}
	path := a.Layout.ArchivePath(t)
	if !extract.IsArchive(path) {
		a.log("%s is not an archive", path)
		return fmt.Errorf("%s: %w", a.tr("menus/utils/not_an_archive"), extract.ErrNotArchive)
	}
	return nil
}

// ExtractArchive installs the already downloaded archive of type t.
func (a *App) ExtractArchive(t content.Type, opts InstallOptions) (*Result, error) {
	if err := a.checkArchive(t); err != nil {
		return nil, err
	}
	archive := a.Layout.ArchivePath(t)
	if archive == "" {
		return nil, fmt.Errorf("don't know how to extract a %s", t)
	}
	a.Progress.SetMessage(fmt.Sprintf("Extracting %s", t))
	xopts := extract.Options{OverwriteInis: true, Progress: a.Progress}
	res := &Result{}

	switch t {
	case content.Firmware:
		dir := a.Layout.Abs(content.FirmwareDir)
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("could not clear %s: %w", dir, err)
		}
		if err := fs.CreateTree(dir); err != nil {
			return nil, err
		}
		if err := extract.Extract(archive, dir, xopts); err != nil {
			return nil, err
		}

	case content.App:
		if err := extract.Extract(archive, a.Layout.Abs(content.ConfigDir), xopts); err != nil {
			return nil, err
		}
		forwarder := a.Layout.Abs(content.ForwarderPath)
		if err := fs.CopyFile(a.Layout.Abs(a.Forwarder), forwarder); err != nil {
			return nil, fmt.Errorf("could not install forwarder: %w", err)
		}
		target := "/" + content.ForwarderPath
		if err := a.Console.SetNextLoad(target, fmt.Sprintf("\"%s\"", target)); err != nil {
			return nil, fmt.Errorf("could not chain-load forwarder: %w", err)
		}
		res.Relaunch = true

	case content.AMS:
		if opts.Ask {
			if err := a.ask(&opts); err != nil {
				return nil, err
			}
		}
		if opts.DeleteFlags {
			if err := cfw.RemoveSysmoduleFlags(a.Layout.Abs(content.AMSContents)); err != nil {
				return nil, fmt.Errorf("could not remove sysmodule flags: %w", err)
			}
		}
		if opts.FreshInstall {
			keep := strings.SplitN(content.DownloadDir, "/", 2)[0]
			err := cfw.CleanRoot(a.Layout.Root, func(path string) (bool, error) {
				if a.Prompter == nil {
					return false, errors.New("fresh install needs a prompter")
				}
				return dialog.Confirm(a.Prompter, a.Strings.Trf("menus/utils/delete_entry", path), a.tr("menus/common/no"), a.tr("menus/common/yes"))
			}, keep)
			if err != nil {
				return nil, fmt.Errorf("could not clean SD card: %w", err)
			}
		}
		xopts.OverwriteInis = opts.OverwriteInis
		if err := extract.Extract(archive, a.Layout.Root, xopts); err != nil {
			return nil, err
		}
		if err := fs.CopyFiles(a.Layout.Root, a.Layout.Abs(content.CopyFilesList)); err != nil {
			return nil, fmt.Errorf("could not copy files: %w", err)
		}

	case content.Translations:
		if err := extract.Extract(archive, a.Layout.Abs(content.AMSContents), xopts); err != nil {
			return nil, err
		}
	}

	a.log("extracted %s", t)
	return res, nil
}

// Install downloads (unless url is empty, in which case an earlier download
// is used), validates and extracts the archive of type t, then removes it.
func (a *App) Install(ctx context.Context, url string, t content.Type, opts InstallOptions) (*Result, error) {
	a.Progress.Reset()
	a.Progress.SetTotalSteps(3)

	if url != "" {
		if _, err := a.DownloadArchive(ctx, url, t); err != nil {
			return nil, err
		}
	}
	a.Progress.IncrementStep(1)

	res, err := a.ExtractArchive(t, opts)
	if err != nil {
		return nil, err
	}
	a.Progress.IncrementStep(1)

	if !opts.KeepArchive {
		if err := os.Remove(a.Layout.ArchivePath(t)); err != nil && !errors.Is(err, os.ErrNotExist) {
			glog.Warningf("Could not remove archive: %v", err)
		}
	}
	if opts.Version != "" {
		if err := a.saveVersion(t, opts.Version); err != nil {
			glog.Warningf("Could not record version: %v", err)
		}
	}
	a.Progress.IncrementStep(1)
	return res, nil
}
