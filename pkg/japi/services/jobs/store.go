// Package jobs is the in-memory scheduler behind the stand-in API. A job's
// status follows from the time elapsed since submission: it is queued for
// QueueDelay, runs for RunDuration and then completes, unless it was shut
// down or terminated first.
package jobs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quatton/jarvice/pkg/client"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrJobEnded       = errors.New("job has already ended")
	ErrNotRunning     = errors.New("job is not running")
	ErrNotEnded       = errors.New("job has not ended yet")
	ErrUnknownApp     = errors.New("unknown application")
	ErrUnknownCommand = errors.New("unknown application command")
	ErrUnknownMachine = errors.New("unknown machine type")
	ErrUnknownAction  = errors.New("unknown action")
)

const (
	defaultMachine = "n0"
	logStep        = 5 * time.Second
)

// Selector picks a job by number or by name. Zero values are unset.
type Selector struct {
	Number int64
	Name   string
}

func (s Selector) String() string {
	if s.Number != 0 {
		return strconv.FormatInt(s.Number, 10)
	}
	return s.Name
}

// Spec is what a submission asks for. Empty fields take the app's first
// command, machine n0 and one node.
type Spec struct {
	App         string
	Command     string
	MachineType string
	Nodes       int
	Project     string
	Walltime    string
}

type Options struct {
	QueueDelay  time.Duration
	RunDuration time.Duration
	Catalog     *Catalog
	Now         func() time.Time
}

type job struct {
	number    int64
	name      string
	owner     string
	spec      Spec
	password  string
	submitted time.Time

	// set when shut down or terminated
	final   string
	endedAt time.Time
}

type Store struct {
	mu   sync.RWMutex
	jobs []*job
	next int64
	opts Options
}

func NewStore(opts Options) *Store {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{next: 1, opts: opts}
}

func (s *Store) Catalog() *Catalog {
	return s.opts.Catalog
}

// Submit queues a new job for owner.
func (s *Store) Submit(owner string, spec Spec) (client.SubmitResponse, error) {
	app, ok := s.opts.Catalog.app(spec.App)
	if !ok {
		return client.SubmitResponse{}, fmt.Errorf("%w %q", ErrUnknownApp, spec.App)
	}
	if spec.Command == "" && len(app.Commands) > 0 {
		spec.Command = app.Commands[0].Name
	}
	if !hasEntry(app.Commands, spec.Command) {
		return client.SubmitResponse{}, fmt.Errorf("%w %q for %s", ErrUnknownCommand, spec.Command, app.ID)
	}
	if spec.MachineType == "" {
		spec.MachineType = defaultMachine
	}
	if !s.opts.Catalog.hasMachine(spec.MachineType) {
		return client.SubmitResponse{}, fmt.Errorf("%w %q", ErrUnknownMachine, spec.MachineType)
	}
	if spec.Nodes <= 0 {
		spec.Nodes = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	j := &job{
		number:    s.next,
		owner:     owner,
		spec:      spec,
		password:  uuid.NewString(),
		submitted: now,
	}
	j.name = fmt.Sprintf("%s-%s-%s-%d", now.UTC().Format("20060102150405"),
		strings.ToUpper(uuid.NewString()[:5]), spec.App, j.number)
	s.jobs = append(s.jobs, j)
	s.next++

	return client.SubmitResponse{Name: j.name, Number: j.number}, nil
}

// phase derives the status of j at now along with its start and end times.
// Zero times are unset.
func (s *Store) phase(j *job, now time.Time) (status string, start, end time.Time) {
	queuedUntil := j.submitted.Add(s.opts.QueueDelay)
	doneAt := queuedUntil.Add(s.opts.RunDuration)

	if j.final != "" {
		if j.endedAt.After(queuedUntil) {
			start = queuedUntil
		}
		return j.final, start, j.endedAt
	}
	switch {
	case now.Before(queuedUntil):
		return client.StatusSubmitted, time.Time{}, time.Time{}
	case now.Before(doneAt):
		return client.StatusProcessingStarting, queuedUntil, time.Time{}
	default:
		return client.StatusCompleted, queuedUntil, doneAt
	}
}

// List returns owner's jobs keyed by number: current ones, or ended ones
// when completed is set.
func (s *Store) List(owner string, completed bool) *client.OrderedMap[client.JobEntry] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.opts.Now()
	out := client.NewOrderedMap[client.JobEntry]()
	for _, j := range s.jobs {
		if j.owner != owner {
			continue
		}
		status, start, end := s.phase(j, now)
		if client.IsTerminal(status) != completed {
			continue
		}
		out.Set(strconv.FormatInt(j.number, 10), s.entry(j, status, start, end, now))
	}
	return out
}

func (s *Store) entry(j *job, status string, start, end, now time.Time) client.JobEntry {
	queued := now.Sub(j.submitted)
	if !start.IsZero() {
		queued = start.Sub(j.submitted)
	} else if !end.IsZero() {
		queued = end.Sub(j.submitted)
	}
	var compute time.Duration
	if !start.IsZero() {
		until := now
		if !end.IsZero() {
			until = end
		}
		compute = until.Sub(start)
	}
	queueSecs, computeSecs := queued.Seconds(), compute.Seconds()
	machineType, nodes := j.spec.MachineType, j.spec.Nodes

	return client.JobEntry{
		JobName:          j.name,
		JobApplication:   j.spec.App,
		JobCommand:       j.spec.Command,
		JobOwnerUsername: j.owner,
		JobStatus:        status,
		JobProject:       j.spec.Project,
		JobStats:         &client.JobStats{QueueTime: &queueSecs, ComputeTime: &computeSecs},
		JobAPISubmission: &client.JobSubmission{
			App:     j.spec.App,
			Machine: &client.SubmissionMachine{Type: &machineType, Nodes: &nodes},
		},
	}
}

func (s *Store) find(owner string, sel Selector) (*job, error) {
	for _, j := range s.jobs {
		if j.owner != owner {
			continue
		}
		if (sel.Number != 0 && j.number == sel.Number) || (sel.Name != "" && j.name == sel.Name) {
			return j, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
}

// Status returns the detailed status of one job, keyed by its number.
func (s *Store) Status(owner string, sel Selector) (*client.OrderedMap[client.JobStatusEntry], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.find(owner, sel)
	if err != nil {
		return nil, err
	}
	status, start, end := s.phase(j, s.opts.Now())

	entry := client.JobStatusEntry{
		JobName:        j.name,
		JobProject:     j.spec.Project,
		JobApplication: j.spec.App,
		JobCommand:     j.spec.Command,
		JobStatus:      status,
		JobSubmitTime:  epoch(j.submitted),
		JobStartTime:   epoch(start),
		JobEndTime:     epoch(end),
		JobWalltime:    client.FlexString(j.spec.Walltime),
	}
	if status == client.StatusTerminated {
		entry.JobSubstatus = "terminated by user"
	}

	out := client.NewOrderedMap[client.JobStatusEntry]()
	out.Set(strconv.FormatInt(j.number, 10), entry)
	return out, nil
}

func epoch(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	v := t.Unix()
	return &v
}

// Shutdown ends a job with status COMPLETED.
func (s *Store) Shutdown(owner string, sel Selector) error {
	return s.end(owner, sel, client.StatusCompleted)
}

// Terminate ends a job with status TERMINATED.
func (s *Store) Terminate(owner string, sel Selector) error {
	return s.end(owner, sel, client.StatusTerminated)
}

func (s *Store) end(owner string, sel Selector, final string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.find(owner, sel)
	if err != nil {
		return err
	}
	now := s.opts.Now()
	if status, _, _ := s.phase(j, now); client.IsTerminal(status) {
		return fmt.Errorf("%w: %s is %s", ErrJobEnded, sel, status)
	}
	j.final = final
	j.endedAt = now
	return nil
}

// Action runs an application action on a running job.
func (s *Store) Action(owner string, sel Selector, action string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.running(owner, sel)
	if err != nil {
		return err
	}
	app, _ := s.opts.Catalog.app(j.spec.App)
	if !hasEntry(app.Actions, action) {
		return fmt.Errorf("%w %q for %s", ErrUnknownAction, action, app.ID)
	}
	return nil
}

func (s *Store) running(owner string, sel Selector) (*job, error) {
	j, err := s.find(owner, sel)
	if err != nil {
		return nil, err
	}
	if status, _, _ := s.phase(j, s.opts.Now()); status != client.StatusProcessingStarting {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotRunning, sel, status)
	}
	return j, nil
}

// Tail returns the last lines of a running job's output; lines <= 0 returns all of it.
func (s *Store) Tail(owner string, sel Selector, lines int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.running(owner, sel)
	if err != nil {
		return "", err
	}
	return s.output(j, lines), nil
}

// Output returns the output of an ended job.
func (s *Store) Output(owner string, sel Selector, lines int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.find(owner, sel)
	if err != nil {
		return "", err
	}
	if status, _, _ := s.phase(j, s.opts.Now()); !client.IsTerminal(status) {
		return "", fmt.Errorf("%w: %s is %s", ErrNotEnded, sel, status)
	}
	return s.output(j, lines), nil
}

// output synthesizes one line per logStep of compute time.
func (s *Store) output(j *job, lines int) string {
	now := s.opts.Now()
	status, start, end := s.phase(j, now)
	if start.IsZero() {
		if end.IsZero() {
			return ""
		}
		return fmt.Sprintf("job ended before starting: %s\n", status)
	}
	until := now
	if !end.IsZero() {
		until = end
	}

	all := []string{fmt.Sprintf("[+0s] %s %s on %d x %s", j.spec.App, j.spec.Command, j.spec.Nodes, j.spec.MachineType)}
	for t, step := logStep, 1; t <= until.Sub(start); t, step = t+logStep, step+1 {
		all = append(all, fmt.Sprintf("[+%s] step %d", t, step))
	}
	if !end.IsZero() {
		all = append(all, fmt.Sprintf("[+%s] %s", end.Sub(start).Round(time.Second), status))
	}

	if lines > 0 && lines < len(all) {
		all = all[len(all)-lines:]
	}
	return strings.Join(all, "\n") + "\n"
}

// Connect returns the address and password of a running job. Jobs that are
// not running have neither.
func (s *Store) Connect(owner string, sel Selector) (client.ConnectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.find(owner, sel)
	if err != nil {
		return client.ConnectInfo{}, err
	}
	if status, _, _ := s.phase(j, s.opts.Now()); status != client.StatusProcessingStarting {
		return client.ConnectInfo{}, nil
	}
	addr := address(j)
	return client.ConnectInfo{Address: &addr, Password: &j.password}, nil
}

// Info describes how to reach a job and which actions it accepts.
func (s *Store) Info(owner string, sel Selector) (client.RuntimeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, err := s.find(owner, sel)
	if err != nil {
		return client.RuntimeInfo{}, err
	}
	app, _ := s.opts.Catalog.app(j.spec.App)

	info := client.RuntimeInfo{About: app.About, Actions: client.NewOrderedMap[string]()}
	for _, a := range app.Actions {
		info.Actions.Set(a.Name, a.Description)
	}
	if status, _, _ := s.phase(j, s.opts.Now()); status == client.StatusProcessingStarting {
		info.Address = address(j)
		info.Password = j.password
		info.URL = "https://" + info.Address + "/"
	}
	return info, nil
}

func address(j *job) string {
	return fmt.Sprintf("10.0.%d.%d", (j.number/250)%250, j.number%250+1)
}
