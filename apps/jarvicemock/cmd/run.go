package cmd

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/quatton/jarvice/pkg/japi"
	"github.com/quatton/jarvice/pkg/japi/config"
	"github.com/quatton/jarvice/pkg/japi/routes"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the stand-in API server",
	Long: `Start the stand-in API server on JARVICE_MOCK_PORT. Requests must carry
JARVICE_MOCK_USERNAME and JARVICE_MOCK_APIKEY as their username and apikey.

Point the CLI at it with:
  JARVICE_API_URL=http://localhost:8080 jarvice jobs`,
	Run: run,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) {
	logger := jlog.NewDefault()

	cfg, err := config.ValidateEnv()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	cfg.Print(log.Printf)

	store := jobs.NewStore(jobs.Options{
		QueueDelay:  cfg.QueueDelay,
		RunDuration: cfg.RunDuration,
	})

	api := japi.NewApi(logger)
	routes.RegisterAPI(api.Api, store, routes.Account{Username: cfg.Username, APIKey: cfg.APIKey})

	addr := fmt.Sprintf(":%s", cfg.Port)
	base := fmt.Sprintf("http://localhost:%s", cfg.Port)

	log.Printf("🚀 Stand-in API starting on %s\n", addr)
	log.Printf("📚 OpenAPI docs: %s/docs\n", base)
	log.Printf("📄 OpenAPI spec: %s/openapi.json\n", base)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
