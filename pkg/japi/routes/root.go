package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
)

// RegisterAPI registers every route. A nil store is enough to describe the
// API, for instance when printing the OpenAPI document.
func RegisterAPI(api huma.API, store *jobs.Store, account Account) {
	RegisterHealth(api)
	RegisterJobs(api, store, account)
	RegisterCatalog(api, store, account)
}
