package jprint

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/quatton/jarvice/pkg/client"
)

type palette struct {
	heading   *color.Color
	key       *color.Color
	completed *color.Color
	failed    *color.Color
	queued    *color.Color
	starting  *color.Color
}

func newPalette(enabled *bool) palette {
	p := palette{
		heading:   color.New(color.Bold),
		key:       color.New(color.FgCyan),
		completed: color.New(color.FgHiBlack),
		failed:    color.New(color.FgRed),
		queued:    color.New(color.FgYellow),
		starting:  color.New(color.FgGreen),
	}
	if enabled != nil {
		for _, c := range []*color.Color{p.heading, p.key, p.completed, p.failed, p.queued, p.starting} {
			if *enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
	return p
}

// forStatus returns the row color of a status, nil for statuses shown unstyled.
func (p palette) forStatus(status string) *color.Color {
	switch StatusCategoryOf(status) {
	case CategoryCompleted:
		return p.completed
	case CategoryFailed:
		return p.failed
	case CategoryQueued:
		return p.queued
	case CategoryStarting:
		return p.starting
	default:
		return nil
	}
}

type styledPresenter struct {
	w   io.Writer
	loc *time.Location
	pal palette
}

// newTable returns a box-drawn table whose header is painted with the
// heading color. Cells are never truncated.
func (p *styledPresenter) newTable(header ...string) table.Writer {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	t := table.NewWriter()
	t.SetStyle(style)
	t.AppendHeader(paintRow(p.pal.heading, header...))
	return t
}

// paintRow builds a table row with every cell painted with c.
func paintRow(c *color.Color, cells ...string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = paint(c, cell)
	}
	return row
}

func paint(c *color.Color, s string) string {
	if c == nil || s == "" {
		return s
	}
	return c.Sprint(s)
}

func (p *styledPresenter) RenderJobs(jobs *client.OrderedMap[client.JobEntry]) error {
	t := p.newTable("ID", "Name", "App", "User", "St", "Time", "Nodes", "Machine type")
	jobs.Each(func(id string, entry client.JobEntry) bool {
		elapsed, nodes, machineType := ExtractTiming(entry)
		t.AppendRow(paintRow(p.pal.forStatus(entry.JobStatus),
			id,
			entry.JobName,
			appColumn(entry.JobApplication, entry.JobCommand),
			entry.JobOwnerUsername,
			ShortStatus(entry.JobStatus),
			elapsed,
			nodes,
			machineType,
		))
		return true
	})
	return p.flushTable(t)
}

func (p *styledPresenter) RenderApps(apps *client.OrderedMap[client.AppDescriptor]) error {
	t := p.newTable("ID", "App", "Author", "Commands")
	apps.Each(func(id string, app client.AppDescriptor) bool {
		var name, author string
		if app.Data != nil {
			name, author = app.Data.Name, app.Data.Author
		}
		t.AppendRow(table.Row{id, name, author, strings.Join(commandNames(app.Data), ",")})
		return true
	})
	return p.flushTable(t)
}

func (p *styledPresenter) RenderApp(app client.AppDescriptor) error {
	var b strings.Builder
	if app.Data == nil {
		b.WriteString(app.ID + "\n")
		return p.flush(&b)
	}

	b.WriteString(paint(p.pal.heading, app.Data.Name+" "+app.Data.Author) + "\n")
	if app.Data.Commands != nil {
		t := p.newTable("Command", "Description")
		app.Data.Commands.Each(func(name string, cmd client.AppCommand) bool {
			t.AppendRow(table.Row{name, cmd.Description})
			return true
		})
		b.WriteString(t.Render() + "\n")
	}
	return p.flush(&b)
}

func (p *styledPresenter) RenderMachines(machines *client.OrderedMap[client.MachineDef]) error {
	var b strings.Builder
	first := true
	machines.Each(func(name string, mc client.MachineDef) bool {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(paint(p.pal.heading, name) + "\n")
		p.fields(&b, machineFields(mc), nil)
		return true
	})
	return p.flush(&b)
}

func (p *styledPresenter) RenderRuntimeInfo(info *client.RuntimeInfo) error {
	var b strings.Builder
	p.fields(&b, infoFields(info), nil)
	if info.Actions.Len() > 0 {
		b.WriteString(paint(p.pal.heading, "actions") + "\n")
		var actions []field
		info.Actions.Each(func(name, desc string) bool {
			actions = append(actions, field{name, desc})
			return true
		})
		p.fields(&b, actions, nil)
	}
	return p.flush(&b)
}

func (p *styledPresenter) RenderStatus(statuses *client.OrderedMap[client.JobStatusEntry]) error {
	var b strings.Builder
	first := true
	statuses.Each(func(id string, entry client.JobStatusEntry) bool {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(paint(p.pal.heading, fmt.Sprintf("Job %s", id)) + "\n")
		p.fields(&b, statusFields(id, entry, p.loc), map[string]*color.Color{
			"Status": p.pal.forStatus(entry.JobStatus),
		})
		return true
	})
	return p.flush(&b)
}

func (p *styledPresenter) RenderConnect(address, password string) error {
	var b strings.Builder
	p.fields(&b, []field{{"Address", address}, {"Password", password}}, nil)
	return p.flush(&b)
}

// fields writes aligned key/value lines. valueStyles paints the values of
// the named keys.
func (p *styledPresenter) fields(b *strings.Builder, fields []field, valueStyles map[string]*color.Color) {
	width := 0
	for _, f := range fields {
		width = max(width, utf8.RuneCountInString(f.key))
	}
	for _, f := range fields {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(f.key))
		fmt.Fprintf(b, "  %s%s  %s\n", paint(p.pal.key, f.key), pad, paint(valueStyles[f.key], f.value))
	}
}

func (p *styledPresenter) flushTable(t table.Writer) error {
	_, err := io.WriteString(p.w, t.Render()+"\n")
	return err
}

func (p *styledPresenter) flush(b *strings.Builder) error {
	_, err := io.WriteString(p.w, b.String())
	return err
}
