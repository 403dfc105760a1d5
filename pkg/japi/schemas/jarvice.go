package schemas

// SubmitRequest is a JARVICE job descriptor. Only the fields the stand-in
// scheduler acts on are declared; any others are accepted and ignored.
type SubmitRequest struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	App         string             `json:"app" minLength:"1" doc:"Application ID"`
	Application *SubmitApplication `json:"application,omitempty" doc:"Application command and parameters"`
	Machine     *SubmitMachine     `json:"machine,omitempty" doc:"Machine type and node count"`
	JobProject  string             `json:"job_project,omitempty" doc:"Project to account the job to"`
	Walltime    string             `json:"walltime,omitempty" doc:"Maximum run time, HH:MM:SS"`
	User        *SubmitUser        `json:"user,omitempty" doc:"Submitting account"`
}

type SubmitApplication struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Command string `json:"command,omitempty" doc:"Application command to run"`
}

type SubmitMachine struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Type  string `json:"type,omitempty" doc:"Machine type name"`
	Nodes int    `json:"nodes,omitempty" minimum:"0" doc:"Number of nodes"`
}

type SubmitUser struct {
	Username string `json:"username,omitempty"`
	APIKey   string `json:"apikey,omitempty"`
}

// StatusResponse is the body of the job control endpoints.
type StatusResponse struct {
	Status string `json:"status" example:"shutdown requested"`
}
