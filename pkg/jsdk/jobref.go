package jsdk

import (
	"strconv"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// JobRef identifies a job either by its number or by its name. The only
// implementations are ByID and ByName.
type JobRef interface {
	String() string
	jobRef()
}

// ByID selects a job by the number the scheduler assigned to it.
type ByID int64

// ByName selects a job by its generated name.
type ByName string

func (ByID) jobRef()   {}
func (ByName) jobRef() {}

func (r ByID) String() string   { return strconv.FormatInt(int64(r), 10) }
func (r ByName) String() string { return string(r) }

// ParseJobRef builds a JobRef from the --jobid/--jobname pair. Exactly one
// of them must be given.
func ParseJobRef(id *int64, name *string) (JobRef, error) {
	switch {
	case id != nil && name != nil:
		return nil, jerr.Usagef("--jobid and --jobname are mutually exclusive")
	case id != nil:
		return ByID(*id), nil
	case name != nil:
		if *name == "" {
			return nil, jerr.Usagef("--jobname must not be empty")
		}
		return ByName(*name), nil
	default:
		return nil, jerr.Usagef("one of --jobid or --jobname is required")
	}
}

func selectorFor(ref JobRef) (client.JobSelector, error) {
	switch r := ref.(type) {
	case ByID:
		n := int64(r)
		return client.JobSelector{Number: &n}, nil
	case ByName:
		s := string(r)
		return client.JobSelector{Name: &s}, nil
	default:
		return client.JobSelector{}, jerr.Usagef("a job number or name is required")
	}
}
