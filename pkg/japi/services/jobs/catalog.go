package jobs

import (
	"github.com/quatton/jarvice/pkg/client"
)

// App is an application the stand-in scheduler can run.
type App struct {
	ID       string
	Name     string
	Author   string
	About    string
	Commands []Entry
	Actions  []Entry
}

// Entry is a named item with a description, kept in declaration order.
type Entry struct {
	Name        string
	Description string
}

// Machine is a machine type offered by the stand-in scheduler.
type Machine struct {
	Name string
	Def  client.MachineDef
}

// Catalog holds the applications and machine types jobs may use.
type Catalog struct {
	Apps     []App
	Machines []Machine
}

// DefaultCatalog returns a small fixed set of applications and machines.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Apps: []App{
			{
				ID:     "jarvice-sim",
				Name:   "JARVICE Simulator",
				Author: "Nimbix",
				About:  "Synthetic batch workload",
				Commands: []Entry{
					{"run", "Run a batch simulation"},
					{"gui", "Start an interactive desktop"},
				},
				Actions: []Entry{
					{"checkpoint", "Write a checkpoint"},
					{"restart", "Restart the solver"},
				},
			},
			{
				ID:     "ubuntu-desktop",
				Name:   "Ubuntu Desktop",
				Author: "Nimbix",
				About:  "Remote desktop session",
				Commands: []Entry{
					{"desktop", "Start a desktop session"},
				},
			},
			{
				ID:       "hello-world",
				Name:     "Hello World",
				Author:   "Nimbix",
				About:    "Prints a greeting",
				Commands: []Entry{{"run", "Say hello"}},
			},
		},
		Machines: []Machine{
			{"n0", client.MachineDef{
				Description: "4 core, 16GB RAM (CPU only)", Arch: "x86_64",
				Cores: 4, RAM: 16, Scratch: 100, Swap: 4, ScaleMin: 1, ScaleMax: 1, Price: 0.25,
			}},
			{"n3", client.MachineDef{
				Description: "16 core, 64GB RAM (CPU only)", Arch: "x86_64", Properties: "ssd",
				Cores: 16, RAM: 64, Scratch: 400, Swap: 16, ScaleMin: 1, ScaleMax: 16, Price: 1.5,
			}},
			{"ng1", client.MachineDef{
				Description: "8 core, 64GB RAM, 1 GPU", Arch: "x86_64", Devices: "nvidia",
				Cores: 8, RAM: 64, GPUs: 1, Scratch: 400, Swap: 16, ScaleMin: 1, ScaleMax: 4, Price: 3,
			}},
			{"nw32", client.MachineDef{
				Description: "Worker node, 32 core", Arch: "x86_64",
				Cores: 2, RAM: 8, SlaveCores: 32, SlaveRAM: 128, SlaveProperties: "ib",
				Scratch: 800, ScaleMin: 2, ScaleMax: 64, Price: 2.75,
			}},
		},
	}
}

func (c *Catalog) app(id string) (*App, bool) {
	for i := range c.Apps {
		if c.Apps[i].ID == id {
			return &c.Apps[i], true
		}
	}
	return nil, false
}

func (c *Catalog) hasMachine(name string) bool {
	for _, m := range c.Machines {
		if m.Name == name {
			return true
		}
	}
	return false
}

func hasEntry(entries []Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// AppListing returns the apps keyed by ID. A non-empty name keeps only that app.
func (c *Catalog) AppListing(name string) *client.OrderedMap[client.AppDescriptor] {
	out := client.NewOrderedMap[client.AppDescriptor]()
	for _, a := range c.Apps {
		if name != "" && a.ID != name {
			continue
		}
		commands := client.NewOrderedMap[client.AppCommand]()
		for _, cmd := range a.Commands {
			commands.Set(cmd.Name, client.AppCommand{Description: cmd.Description})
		}
		out.Set(a.ID, client.AppDescriptor{
			ID:   a.ID,
			Data: &client.AppData{Name: a.Name, Author: a.Author, Commands: commands},
		})
	}
	return out
}

// MachineListing returns the machine types keyed by name. A non-empty name
// keeps only that machine.
func (c *Catalog) MachineListing(name string) *client.OrderedMap[client.MachineDef] {
	out := client.NewOrderedMap[client.MachineDef]()
	for _, m := range c.Machines {
		if name != "" && m.Name != name {
			continue
		}
		out.Set(m.Name, m.Def)
	}
	return out
}
