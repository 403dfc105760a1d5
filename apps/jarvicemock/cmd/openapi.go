package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/jarvice/pkg/japi"
	"github.com/quatton/jarvice/pkg/japi/routes"
	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/spf13/cobra"
)

var openapiCmd = &cobra.Command{
	Use:     "openapi",
	Aliases: []string{"spec"},
	Short:   "Print the OpenAPI document of the stand-in API",
	Long: `Outputs the OpenAPI document describing the /jarvice/* endpoints without
starting the server. Pass --downgrade=false to keep OpenAPI 3.1.`,
	Args: cobra.NoArgs,
	RunE: generateOpenAPI,
}

var (
	openapiOutput    string
	openapiFormat    string
	openapiDowngrade bool
)

func init() {
	rootCmd.AddCommand(openapiCmd)
	openapiCmd.Flags().StringVarP(&openapiOutput, "output", "o", "", "Write output to file (default stdout)")
	openapiCmd.Flags().StringVarP(&openapiFormat, "format", "f", "json", "Document format: json or yaml")
	openapiCmd.Flags().BoolVar(&openapiDowngrade, "downgrade", true, "Downgrade OpenAPI to 3.0 when generating the spec")
}

func generateOpenAPI(cmd *cobra.Command, args []string) error {
	api := japi.NewApi(jlog.Discard())
	routes.RegisterAPI(api.Api, nil, routes.Account{})

	spec, err := renderOpenAPI(api.Api.OpenAPI(), openapiFormat, openapiDowngrade)
	if err != nil {
		return err
	}

	if openapiOutput == "" {
		_, err := cmd.OutOrStdout().Write(spec)
		return err
	}
	if err := os.WriteFile(openapiOutput, spec, 0644); err != nil {
		return fmt.Errorf("writing OpenAPI document to %s: %w", openapiOutput, err)
	}
	return nil
}

func renderOpenAPI(doc *huma.OpenAPI, format string, downgrade bool) ([]byte, error) {
	switch {
	case format == "yaml" && downgrade:
		return doc.DowngradeYAML()
	case format == "yaml":
		return doc.YAML()
	case format != "json":
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	case downgrade:
		return doc.Downgrade()
	default:
		return json.Marshal(doc)
	}
}
