package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/golang/glog"

	aiofs "github.com/gmpack/aiou/pkg/fs"
)

// MaxPayloadSize is the largest RCM payload that fits in IRAM.
const MaxPayloadSize = 0x2f000

// PowerAction is a pending power request.
type PowerAction string

const (
	PowerNone     PowerAction = ""
	PowerShutdown PowerAction = "shutdown"
	PowerReboot   PowerAction = "reboot"
	PowerPayload  PowerAction = "payload"
)

// NextLoad is a pending chain-load request.
type NextLoad struct {
	Path string `json:"path"`
	Argv string `json:"argv"`
}

// State is what a Host has been asked to do. It is persisted as JSON so that
// the on-console helper can carry the requests out at its next start.
type State struct {
	NextLoad      *NextLoad   `json:"next_load,omitempty"`
	Power         PowerAction `json:"power,omitempty"`
	Payload       string      `json:"payload,omitempty"`
	LegacyPayload bool        `json:"legacy_payload,omitempty"`
}

// Host is a Console for when the updater does not run on the console itself,
// but on a machine with the SD card mounted. Hardware facts come from
// configuration, and requests are queued in a state file. Paths in requests
// are as the console sees them: rooted at the SD card, eg.
// "/bootloader/payloads/hekate.bin".
type Host struct {
	Model  ProductModel
	Applet AppletType
	// Root is where the SD card is mounted on this machine.
	Root      string
	StatePath string
}

// SDPath returns p as an absolute path on the SD card. ".." elements cannot
// leave the card.
func SDPath(p string) string {
	return path.Clean("/" + filepath.ToSlash(p))
}

// local returns where the SD path p is found on this machine.
func (h *Host) local(p string) string {
	return filepath.Join(h.Root, filepath.FromSlash(SDPath(p)))
}

func (h *Host) ProductModel() ProductModel { return h.Model }
func (h *Host) AppletType() AppletType     { return h.Applet }

// ReadState returns the currently queued requests.
func (h *Host) ReadState() (*State, error) {
	var s State
	data, err := os.ReadFile(h.StatePath)
	if errors.Is(err, os.ErrNotExist) {
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("could not parse console state %s: %w", h.StatePath, err)
	}
	return &s, nil
}

func (h *Host) update(f func(s *State)) error {
	if h.StatePath == "" {
		return ErrUnsupported
	}
	s, err := h.ReadState()
	if err != nil {
		return err
	}
	f(s)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return aiofs.WriteAtomic(h.StatePath, data)
}

func (h *Host) Shutdown(reboot bool) error {
	action := PowerShutdown
	if reboot {
		action = PowerReboot
	}
	glog.Infof("Queueing %s", action)
	return h.update(func(s *State) {
		s.Power = action
		s.Payload = ""
		s.LegacyPayload = false
	})
}

// RebootToPayload queues a reboot into the payload at the SD path p, which
// has to exist on the card.
func (h *Host) RebootToPayload(p string, legacy bool) error {
	p = SDPath(p)
	fi, err := os.Stat(h.local(p))
	if err != nil {
		return fmt.Errorf("could not read payload: %w", err)
	}
	switch {
	case fi.IsDir():
		return fmt.Errorf("payload %s is a directory", p)
	case fi.Size() == 0:
		return fmt.Errorf("payload %s is empty", p)
	case fi.Size() > MaxPayloadSize:
		return fmt.Errorf("payload %s is too large (%d bytes, max %d)", p, fi.Size(), MaxPayloadSize)
	}
	glog.Infof("Queueing reboot to payload %s (legacy: %v)", p, legacy)
	return h.update(func(s *State) {
		s.Power = PowerPayload
		s.Payload = p
		s.LegacyPayload = legacy
	})
}

func (h *Host) SetNextLoad(p, argv string) error {
	return h.update(func(s *State) {
		s.NextLoad = &NextLoad{Path: SDPath(p), Argv: argv}
	})
}
