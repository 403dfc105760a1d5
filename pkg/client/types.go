package client

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// JobEntry is one value of the /jarvice/jobs listing.
type JobEntry struct {
	JobName          string         `json:"job_name"`
	JobApplication   string         `json:"job_application"`
	JobCommand       string         `json:"job_command"`
	JobOwnerUsername string         `json:"job_owner_username"`
	JobStatus        string         `json:"job_status"`
	JobProject       string         `json:"job_project,omitempty"`
	JobStats         *JobStats      `json:"job_stats,omitempty"`
	JobAPISubmission *JobSubmission `json:"job_api_submission,omitempty"`
}

// JobStats holds time accounting in seconds.
type JobStats struct {
	QueueTime   *float64 `json:"queue_time,omitempty"`
	ComputeTime *float64 `json:"compute_time,omitempty"`
}

// JobSubmission is the subset of the submitted descriptor echoed back by the API.
type JobSubmission struct {
	App     string             `json:"app,omitempty"`
	Machine *SubmissionMachine `json:"machine,omitempty"`
}

type SubmissionMachine struct {
	Type  *string `json:"type,omitempty"`
	Nodes *int    `json:"nodes,omitempty"`
}

// JobStatusEntry is one value of the /jarvice/status response.
type JobStatusEntry struct {
	JobName        string     `json:"job_name"`
	JobProject     string     `json:"job_project,omitempty"`
	JobApplication string     `json:"job_application"`
	JobCommand     string     `json:"job_command"`
	JobStatus      string     `json:"job_status"`
	JobSubstatus   string     `json:"job_substatus,omitempty"`
	JobSubmitTime  *int64     `json:"job_submit_time,omitempty"`
	JobStartTime   *int64     `json:"job_start_time,omitempty"`
	JobEndTime     *int64     `json:"job_end_time,omitempty"`
	JobWalltime    FlexString `json:"job_walltime,omitempty"`
}

// RuntimeInfo describes how to reach a running job.
type RuntimeInfo struct {
	Address  string              `json:"address"`
	Password string              `json:"password"`
	URL      string              `json:"url"`
	About    string              `json:"about"`
	Actions  *OrderedMap[string] `json:"actions,omitempty"`
}

// ConnectInfo is the /jarvice/connect response. Either field may be missing
// while the job is still starting.
type ConnectInfo struct {
	Address  *string `json:"address,omitempty"`
	Password *string `json:"password,omitempty"`
}

// MachineDef describes one machine type. Worker node types populate the
// mc_slave_* fields instead of the base ones.
type MachineDef struct {
	Description     string  `json:"mc_description"`
	Arch            string  `json:"mc_arch"`
	Cores           int     `json:"mc_cores"`
	RAM             int     `json:"mc_ram"`
	GPUs            int     `json:"mc_gpus"`
	Properties      string  `json:"mc_properties"`
	SlaveCores      int     `json:"mc_slave_cores"`
	SlaveRAM        int     `json:"mc_slave_ram"`
	SlaveGPUs       int     `json:"mc_slave_gpus"`
	SlaveProperties string  `json:"mc_slave_properties"`
	Devices         string  `json:"mc_devices"`
	Scratch         int     `json:"mc_scratch"`
	Swap            int     `json:"mc_swap"`
	ScaleMin        int     `json:"mc_scale_min"`
	ScaleMax        int     `json:"mc_scale_max"`
	Price           float64 `json:"mc_price"`
}

// AppDescriptor is one value of the /jarvice/apps listing.
type AppDescriptor struct {
	ID   string   `json:"id"`
	Data *AppData `json:"data,omitempty"`
}

type AppData struct {
	Name     string                  `json:"name"`
	Author   string                  `json:"author"`
	Commands *OrderedMap[AppCommand] `json:"commands,omitempty"`
}

type AppCommand struct {
	Description string `json:"description"`
}

// SubmitResponse identifies a newly created job.
type SubmitResponse struct {
	Name   string `json:"name"`
	Number int64  `json:"number"`
}

// FlexString accepts a JSON string or number. Walltime comes back as either
// depending on the scheduler backend.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Int parses the value as an integer, reporting whether it was one.
func (f FlexString) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(f), 10, 64)
	return n, err == nil
}
