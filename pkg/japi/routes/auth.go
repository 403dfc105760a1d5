package routes

import (
	"crypto/subtle"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
)

// Account is the only user the stand-in server accepts.
type Account struct {
	Username string
	APIKey   string
}

// AuthParams carries the credentials every JARVICE endpoint expects.
type AuthParams struct {
	Username string `query:"username" doc:"Account name"`
	APIKey   string `query:"apikey" doc:"API key"`
}

// JobParams selects one job by number or by name.
type JobParams struct {
	AuthParams
	Number int64  `query:"number" minimum:"0" doc:"Job number"`
	Name   string `query:"name" doc:"Job name"`
}

func (a Account) check(username, apiKey string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	keyOK := subtle.ConstantTimeCompare([]byte(apiKey), []byte(a.APIKey)) == 1
	if !userOK || !keyOK {
		return huma.Error401Unauthorized("invalid user or API key")
	}
	return nil
}

func (a Account) authorize(p AuthParams) error {
	return a.check(p.Username, p.APIKey)
}

func (p JobParams) selector() (jobs.Selector, error) {
	switch {
	case p.Number != 0 && p.Name != "":
		return jobs.Selector{}, huma.Error400BadRequest("specify either number or name, not both")
	case p.Number == 0 && p.Name == "":
		return jobs.Selector{}, huma.Error400BadRequest("number or name is required")
	}
	return jobs.Selector{Number: p.Number, Name: p.Name}, nil
}

// authorizeJob checks credentials and returns the job selector.
func (a Account) authorizeJob(p JobParams) (jobs.Selector, error) {
	if err := a.authorize(p.AuthParams); err != nil {
		return jobs.Selector{}, err
	}
	return p.selector()
}
