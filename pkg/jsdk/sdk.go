// Package jsdk is the job-level facade the CLI talks to. It turns job
// references into API selectors, attaches credentials to every request and
// maps failures onto jerr codes.
package jsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// DefaultPollInterval is the WaitFor polling period.
const DefaultPollInterval = 5 * time.Second

// JobService wraps the REST client for one set of credentials.
type JobService struct {
	Client       *client.Client
	PollInterval time.Duration

	creds Credentials
	log   *jlog.Logger
	doer  client.HttpRequestDoer
}

type Option func(*JobService)

func WithLogger(l *jlog.Logger) Option {
	return func(s *JobService) { s.log = l }
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(doer client.HttpRequestDoer) Option {
	return func(s *JobService) { s.doer = doer }
}

func WithPollInterval(d time.Duration) Option {
	return func(s *JobService) { s.PollInterval = d }
}

// NewJobService returns a service calling creds.BaseURL as creds.Username.
func NewJobService(creds Credentials, opts ...Option) (*JobService, error) {
	s := &JobService{
		PollInterval: DefaultPollInterval,
		creds:        creds,
		log:          jlog.Discard(),
		doer:         &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}

	c, err := client.NewClient(creds.BaseURL,
		client.WithHTTPClient(&loggingDoer{next: s.doer, log: s.log}),
		client.WithRequestEditorFn(s.credentialsEditor),
	)
	if err != nil {
		return nil, jerr.New(jerr.CodeConfig, err)
	}
	s.Client = c
	return s, nil
}

// Username is the account the service acts as.
func (s *JobService) Username() string {
	return s.creds.Username
}

func (s *JobService) credentialsEditor(_ context.Context, req *http.Request) error {
	q := req.URL.Query()
	q.Set("username", s.creds.Username)
	q.Set("apikey", s.creds.APIKey)
	req.URL.RawQuery = q.Encode()
	return nil
}

// loggingDoer logs every request at debug level with the API key masked.
type loggingDoer struct {
	next client.HttpRequestDoer
	log  *jlog.Logger
}

func (d *loggingDoer) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := d.next.Do(req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		d.log.Debug("request failed", "method", req.Method, "url", redactURL(req.URL), "error", err)
		return nil, err
	}
	d.log.Debug("request", "method", req.Method, "url", redactURL(req.URL), "status", resp.StatusCode, "elapsed", elapsed)
	return resp, nil
}

func redactURL(u *url.URL) string {
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "***")
	}
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// apiError tags a client failure with jerr.CodeAPI. Errors that already
// carry a code keep it.
func apiError(err error) error {
	if err == nil {
		return nil
	}
	if jerr.CodeOf(err) != jerr.CodeUnknown {
		return err
	}
	return jerr.New(jerr.CodeAPI, err)
}
