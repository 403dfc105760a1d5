// Package japi is a local stand-in for the JARVICE scheduler API, serving
// the same /jarvice/* endpoints from an in-memory job store.
package japi

import (
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jlog"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

func NewApi(logger *jlog.Logger) *Api {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig("JARVICE stand-in API", "1.0.0")
	RegisterSchemas(config.Components.Schemas)

	api := humachi.New(router, config)

	return &Api{Api: api, Router: router}
}

// RegisterSchemas documents the ordered maps of the wire types as plain
// JSON objects.
func RegisterSchemas(registry huma.Registry) {
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[string]{}), reflect.TypeOf(map[string]string{}))
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[client.AppCommand]{}), reflect.TypeOf(map[string]client.AppCommand{}))
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[client.JobEntry]{}), reflect.TypeOf(map[string]client.JobEntry{}))
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[client.JobStatusEntry]{}), reflect.TypeOf(map[string]client.JobStatusEntry{}))
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[client.AppDescriptor]{}), reflect.TypeOf(map[string]client.AppDescriptor{}))
	registry.RegisterTypeAlias(reflect.TypeOf(client.OrderedMap[client.MachineDef]{}), reflect.TypeOf(map[string]client.MachineDef{}))
}

// requestLogger logs one line per request with the API key masked.
func requestLogger(logger *jlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"query", maskQuery(r.URL.Query()),
				"status", ww.Status(),
				"elapsed", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

func maskQuery(q url.Values) string {
	if q.Has("apikey") {
		q.Set("apikey", "***")
	}
	return q.Encode()
}
