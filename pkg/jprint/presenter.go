// Package jprint renders API results for the terminal, as fixed-width text,
// as colored tables or as JSON.
package jprint

import (
	"io"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

type Mode int

const (
	ModeAuto Mode = iota
	ModePlain
	ModeStyled
	ModeJSON
)

var modeNames = []string{"auto", "plain", "styled", "json"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode reads an --output value. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeAuto, jerr.Usagef("unknown output format %q (want %s)", s, strings.Join(modeNames, ", "))
}

// Detect picks Styled when w is a terminal and Plain otherwise.
func Detect(w io.Writer) Mode {
	f, ok := w.(interface{ Fd() uintptr })
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ModeStyled
	}
	return ModePlain
}

// Presenter renders each kind of API result. Every method writes one
// complete block to the underlying writer.
type Presenter interface {
	RenderJobs(jobs *client.OrderedMap[client.JobEntry]) error
	RenderApps(apps *client.OrderedMap[client.AppDescriptor]) error
	RenderApp(app client.AppDescriptor) error
	RenderMachines(machines *client.OrderedMap[client.MachineDef]) error
	RenderRuntimeInfo(info *client.RuntimeInfo) error
	RenderStatus(statuses *client.OrderedMap[client.JobStatusEntry]) error
	RenderConnect(address, password string) error
}

type options struct {
	loc   *time.Location
	color *bool
}

type Option func(*options)

// WithLocation sets the zone used for timestamps. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithColor forces colors on or off in Styled mode. Without it the
// fatih/color defaults apply (off when stdout is not a terminal or NO_COLOR is set).
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = &enabled }
}

// New returns the presenter for mode writing to w. ModeAuto is resolved
// with Detect.
func New(mode Mode, w io.Writer, opts ...Option) Presenter {
	o := options{loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	if mode == ModeAuto {
		mode = Detect(w)
	}

	switch mode {
	case ModeJSON:
		return &jsonPresenter{w: w}
	case ModeStyled:
		return &styledPresenter{w: w, loc: o.loc, pal: newPalette(o.color)}
	default:
		return &plainPresenter{w: w, loc: o.loc}
	}
}

func appColumn(application, command string) string {
	return application + "/" + command
}

func commandNames(data *client.AppData) []string {
	if data == nil {
		return nil
	}
	return data.Commands.Keys()
}
