package routes

type Tag string

const (
	TagHealth  Tag = "health"
	TagJobs    Tag = "jobs"
	TagCatalog Tag = "catalog"
)

func (t Tag) String() string { return string(t) }

func AllTags() []string {
	return []string{
		TagHealth.String(),
		TagJobs.String(),
		TagCatalog.String(),
	}
}
