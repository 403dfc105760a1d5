package jprint

import (
	"encoding/json"
	"io"

	"github.com/quatton/jarvice/pkg/client"
)

// jsonPresenter dumps payloads as indented JSON. Listings keep the server's
// key order and every field it sent.
type jsonPresenter struct {
	w io.Writer
}

func (p *jsonPresenter) RenderJobs(jobs *client.OrderedMap[client.JobEntry]) error {
	return p.write(orEmpty(jobs))
}

func (p *jsonPresenter) RenderApps(apps *client.OrderedMap[client.AppDescriptor]) error {
	return p.write(orEmpty(apps))
}

func (p *jsonPresenter) RenderApp(app client.AppDescriptor) error {
	return p.write(app)
}

func (p *jsonPresenter) RenderMachines(machines *client.OrderedMap[client.MachineDef]) error {
	return p.write(orEmpty(machines))
}

func (p *jsonPresenter) RenderRuntimeInfo(info *client.RuntimeInfo) error {
	return p.write(info)
}

func (p *jsonPresenter) RenderStatus(statuses *client.OrderedMap[client.JobStatusEntry]) error {
	return p.write(orEmpty(statuses))
}

func (p *jsonPresenter) RenderConnect(address, password string) error {
	return p.write(struct {
		Address  string `json:"address"`
		Password string `json:"password"`
	}{address, password})
}

func (p *jsonPresenter) write(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = p.w.Write(out)
	return err
}

func orEmpty[V any](m *client.OrderedMap[V]) *client.OrderedMap[V] {
	if m == nil {
		return client.NewOrderedMap[V]()
	}
	return m
}
