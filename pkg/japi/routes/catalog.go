package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
)

type CatalogInput struct {
	AuthParams
	Name string `query:"name" doc:"Return only this entry"`
}

type ListAppsOutput struct {
	Body *client.OrderedMap[client.AppDescriptor]
}

type ListMachinesOutput struct {
	Body *client.OrderedMap[client.MachineDef]
}

// RegisterCatalog registers the application and machine listings.
func RegisterCatalog(api huma.API, store *jobs.Store, account Account) {
	huma.Register(api, huma.Operation{
		OperationID: "list-apps",
		Method:      http.MethodGet,
		Path:        "/jarvice/apps",
		Summary:     "List applications",
		Description: "Lists applications keyed by ID",
		Tags:        []string{TagCatalog.String()},
	}, func(ctx context.Context, input *CatalogInput) (*ListAppsOutput, error) {
		if err := account.authorize(input.AuthParams); err != nil {
			return nil, err
		}
		apps := store.Catalog().AppListing(input.Name)
		if input.Name != "" && apps.Len() == 0 {
			return nil, huma.Error404NotFound("application " + input.Name + " not found")
		}
		return &ListAppsOutput{Body: apps}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-machines",
		Method:      http.MethodGet,
		Path:        "/jarvice/machines",
		Summary:     "List machine types",
		Description: "Lists machine types keyed by name",
		Tags:        []string{TagCatalog.String()},
	}, func(ctx context.Context, input *CatalogInput) (*ListMachinesOutput, error) {
		if err := account.authorize(input.AuthParams); err != nil {
			return nil, err
		}
		machines := store.Catalog().MachineListing(input.Name)
		if input.Name != "" && machines.Len() == 0 {
			return nil, huma.Error404NotFound("machine type " + input.Name + " not found")
		}
		return &ListMachinesOutput{Body: machines}, nil
	})
}
