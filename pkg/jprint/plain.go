package jprint

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quatton/jarvice/pkg/client"
)

// Fixed column widths of the plain job table.
const (
	widthID      = 4
	widthName    = 20
	widthApp     = 20
	widthUser    = 15
	widthTime    = 10
	widthNodes   = 4
	widthMachine = 18
)

type plainPresenter struct {
	w   io.Writer
	loc *time.Location
}

func jobHeader() string {
	return strings.Join([]string{
		Fit("ID", widthID),
		Fit("Name", widthName),
		Fit("App", widthApp),
		Fit("User", widthUser),
		"St",
		Fit("Time", widthTime),
		Fit("#N", widthNodes),
		Fit("Machine type", widthMachine),
	}, " ")
}

// JobRow formats one job as a line of the plain table.
func JobRow(id string, entry client.JobEntry) string {
	elapsed, nodes, machineType := ExtractTiming(entry)
	return strings.Join([]string{
		Fit(id, widthID),
		Fit(entry.JobName, widthName),
		Fit(appColumn(entry.JobApplication, entry.JobCommand), widthApp),
		Fit(entry.JobOwnerUsername, widthUser),
		ShortStatus(entry.JobStatus),
		Fit(elapsed, widthTime),
		Fit(nodes, widthNodes),
		Fit(machineType, widthMachine),
	}, " ")
}

func (p *plainPresenter) RenderJobs(jobs *client.OrderedMap[client.JobEntry]) error {
	var b strings.Builder
	b.WriteString(jobHeader())
	b.WriteByte('\n')
	jobs.Each(func(id string, entry client.JobEntry) bool {
		b.WriteString(JobRow(id, entry))
		b.WriteByte('\n')
		return true
	})
	return p.flush(&b)
}

func (p *plainPresenter) RenderApps(apps *client.OrderedMap[client.AppDescriptor]) error {
	var b strings.Builder
	apps.Each(func(id string, app client.AppDescriptor) bool {
		if app.Data == nil {
			b.WriteString(id + "\n")
			return true
		}
		line := fmt.Sprintf("%s : %s %s", id, app.Data.Name, app.Data.Author)
		if app.Data.Commands != nil {
			line += " : [" + strings.Join(app.Data.Commands.Keys(), ",") + "]"
		}
		b.WriteString(line + "\n")
		return true
	})
	return p.flush(&b)
}

func (p *plainPresenter) RenderApp(app client.AppDescriptor) error {
	var b strings.Builder
	if app.Data == nil {
		b.WriteString(app.ID + "\n")
		return p.flush(&b)
	}
	fmt.Fprintf(&b, "%s %s\n", app.Data.Name, app.Data.Author)
	app.Data.Commands.Each(func(name string, cmd client.AppCommand) bool {
		fmt.Fprintf(&b, "%s : %s\n", name, cmd.Description)
		return true
	})
	return p.flush(&b)
}

func (p *plainPresenter) RenderMachines(machines *client.OrderedMap[client.MachineDef]) error {
	var b strings.Builder
	first := true
	machines.Each(func(name string, mc client.MachineDef) bool {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(name + "\n")
		for _, f := range machineFields(mc) {
			fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
		}
		return true
	})
	return p.flush(&b)
}

func (p *plainPresenter) RenderRuntimeInfo(info *client.RuntimeInfo) error {
	var b strings.Builder
	for _, f := range infoFields(info) {
		fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
	}
	if info.Actions.Len() > 0 {
		b.WriteString("actions:\n")
		info.Actions.Each(func(name, desc string) bool {
			fmt.Fprintf(&b, "%s: %s\n", name, desc)
			return true
		})
	}
	return p.flush(&b)
}

func (p *plainPresenter) RenderStatus(statuses *client.OrderedMap[client.JobStatusEntry]) error {
	var b strings.Builder
	first := true
	statuses.Each(func(id string, entry client.JobStatusEntry) bool {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		for _, f := range statusFields(id, entry, p.loc) {
			fmt.Fprintf(&b, "%s: %s\n", f.key, f.value)
		}
		return true
	})
	return p.flush(&b)
}

func (p *plainPresenter) RenderConnect(address, password string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Address : %s\nPassword : %s\n", address, password)
	return p.flush(&b)
}

func (p *plainPresenter) flush(b *strings.Builder) error {
	_, err := io.WriteString(p.w, b.String())
	return err
}

type field struct {
	key, value string
}

// machineFields lists the attributes shown for a machine type. Worker
// node types report their resources in the mc_slave_* fields.
func machineFields(mc client.MachineDef) []field {
	cores, ram, gpus, props := mc.Cores, mc.RAM, mc.GPUs, mc.Properties
	if mc.SlaveCores != 0 {
		cores, ram, gpus, props = mc.SlaveCores, mc.SlaveRAM, mc.SlaveGPUs, mc.SlaveProperties
	}
	return []field{
		{"Description", mc.Description},
		{"Arch", mc.Arch},
		{"Cores", strconv.Itoa(cores)},
		{"RAM", strconv.Itoa(ram)},
		{"GPUs", strconv.Itoa(gpus)},
		{"Properties", props},
		{"Devices", mc.Devices},
		{"Scratch", strconv.Itoa(mc.Scratch)},
		{"Swap", strconv.Itoa(mc.Swap)},
		{"Min Scale", strconv.Itoa(mc.ScaleMin)},
		{"Max Scale", strconv.Itoa(mc.ScaleMax)},
		{"Price", strconv.FormatFloat(mc.Price, 'f', -1, 64)},
	}
}

func infoFields(info *client.RuntimeInfo) []field {
	return []field{
		{"address", info.Address},
		{"password", info.Password},
		{"url", info.URL},
		{"about", info.About},
	}
}

func statusFields(id string, entry client.JobStatusEntry, loc *time.Location) []field {
	fields := []field{
		{"ID", id},
		{"Job Name", entry.JobName},
		{"Project", entry.JobProject},
		{"Application", appColumn(entry.JobApplication, entry.JobCommand)},
		{"Status", fmt.Sprintf("%s (%s)", entry.JobStatus, ShortStatus(entry.JobStatus))},
		{"SStatus", entry.JobSubstatus},
	}
	times := []struct {
		key string
		at  *int64
	}{
		{"Submit Time", entry.JobSubmitTime},
		{"Start Time", entry.JobStartTime},
		{"End Time", entry.JobEndTime},
	}
	for _, t := range times {
		if t.at != nil && *t.at > 0 {
			fields = append(fields, field{t.key, FormatTime(*t.at, loc)})
		}
	}
	if entry.JobWalltime != "" {
		fields = append(fields, field{"Walltime", string(entry.JobWalltime)})
	}
	return fields
}
