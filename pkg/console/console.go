// Package console models the system services of the console the SD card
// belongs to: which hardware revision it is, what kind of process the updater
// runs as, and the power/boot requests the updater can make.
package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gmpack/aiou/pkg/format"
)

// ProductModel is the hardware model as reported by the settings service.
type ProductModel int

const (
	Invalid ProductModel = iota
	Nx
	Copper
	Iowa
	Hoag
	Calcio
	Aula
)

// SoC is the system-on-chip generation of a model.
type SoC string

const (
	// Erista is the original T210.
	Erista SoC = "erista"
	// Mariko is the T210B01 die shrink.
	Mariko SoC = "mariko"
)

// Description of a product model.
type Description struct {
	Model    ProductModel
	Name     string
	Codename string
	SoC      SoC
}

var Descriptions = []Description{
	{Model: Nx, Name: "Switch", Codename: "icosa", SoC: Erista},
	{Model: Copper, Name: "Switch (Copper)", Codename: "copper", SoC: Erista},
	{Model: Iowa, Name: "Switch (2019)", Codename: "iowa", SoC: Mariko},
	{Model: Hoag, Name: "Switch Lite", Codename: "hoag", SoC: Mariko},
	{Model: Calcio, Name: "Switch (Calcio)", Codename: "calcio", SoC: Mariko},
	{Model: Aula, Name: "Switch OLED", Codename: "aula", SoC: Mariko},
}

func (m ProductModel) Description() (Description, bool) {
	for _, d := range Descriptions {
		if d.Model == m {
			return d, true
		}
	}
	return Description{}, false
}

func (m ProductModel) String() string {
	if d, ok := m.Description(); ok {
		return d.Name
	}
	return "UNKNOWN"
}

// ParseProductModel accepts a model codename (eg. 'aula') or its numeric
// value.
func ParseProductModel(s string) (ProductModel, error) {
	s = format.Lower(strings.TrimSpace(s))
	for _, d := range Descriptions {
		if d.Codename == s || fmt.Sprint(int(d.Model)) == s {
			return d.Model, nil
		}
	}
	return Invalid, fmt.Errorf("unknown product model %q", s)
}

// IsErista reports whether m is one of the original, unpatched-bootrom
// models.
func IsErista(m ProductModel) bool {
	return m == Nx || m == Copper
}

// AppletType is the kind of process the updater is running as.
type AppletType int

const (
	Application AppletType = iota
	SystemApplet
	LibraryApplet
	OverlayApplet
	SystemApplication
)

var appletNames = map[AppletType]string{
	Application:       "application",
	SystemApplet:      "system-applet",
	LibraryApplet:     "library-applet",
	OverlayApplet:     "overlay-applet",
	SystemApplication: "system-application",
}

func (a AppletType) String() string {
	if n, ok := appletNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseAppletType accepts the names returned by AppletType.String.
func ParseAppletType(s string) (AppletType, error) {
	for t, n := range appletNames {
		if n == format.Lower(strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return Application, fmt.Errorf("unknown applet type %q", s)
}

// IsApplet reports whether the updater runs in applet mode, which comes with
// a much smaller memory budget than a full application.
func IsApplet(a AppletType) bool {
	return a != Application && a != SystemApplication
}

// ErrUnsupported is returned for requests a Console cannot carry out.
var ErrUnsupported = errors.New("not supported by this console")

// Console is the set of system services used by the updater.
type Console interface {
	ProductModel() ProductModel
	AppletType() AppletType
	// Shutdown powers the console off, or reboots it if reboot is set.
	Shutdown(reboot bool) error
	// RebootToPayload reboots into the RCM payload at path on the SD card.
	// Legacy selects the reboot method used by CFWs other than Atmosphère.
	RebootToPayload(path string, legacy bool) error
	// SetNextLoad selects the homebrew on the SD card to chain-load once the
	// updater exits.
	SetNextLoad(path, argv string) error
}
