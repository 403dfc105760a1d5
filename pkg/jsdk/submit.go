package jsdk

import (
	"context"
	"encoding/json"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

type submitUser struct {
	Username string `json:"username"`
	APIKey   string `json:"apikey"`
}

// Submit sends a job descriptor. The descriptor must be a JSON object naming
// an app; its "user" block is replaced with the service's credentials.
func (s *JobService) Submit(ctx context.Context, descriptor []byte) (*client.SubmitResponse, error) {
	body, err := s.prepareSubmission(descriptor)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Submit(ctx, body)
	if err != nil {
		return nil, apiError(err)
	}
	s.log.Debug("job submitted", "number", resp.Number, "name", resp.Name)
	return resp, nil
}

func (s *JobService) prepareSubmission(descriptor []byte) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(descriptor, &doc); err != nil {
		return nil, jerr.Usagef("job descriptor must be a JSON object: %w", err)
	}
	if doc == nil {
		return nil, jerr.Usagef("job descriptor must be a JSON object")
	}

	var app string
	if raw, ok := doc["app"]; ok {
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, jerr.Usagef(`job descriptor "app" must be a string`)
		}
	}
	if app == "" {
		return nil, jerr.Usagef(`job descriptor is missing "app"`)
	}

	if raw, ok := doc["user"]; ok {
		var given submitUser
		if err := json.Unmarshal(raw, &given); err == nil && given.Username != "" && given.Username != s.creds.Username {
			s.log.Warn("descriptor names another user, submitting as the configured user",
				"descriptor_user", given.Username, "user", s.creds.Username)
		}
	}

	user, err := json.Marshal(submitUser{Username: s.creds.Username, APIKey: s.creds.APIKey})
	if err != nil {
		return nil, err
	}
	doc["user"] = user
	return json.Marshal(doc)
}
