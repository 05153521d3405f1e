package docs

import (
	"bytes"
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	docURL = "/docs/swagger.yaml"

	// versionLine is the info.version entry of the embedded document.
	versionLine = "  version: 1.0.0\n"
)

//go:embed swagger.yaml
var swaggerYAML []byte

// Document returns the OpenAPI document with info.version set to the
// running service version.
func Document(version string) []byte {
	if version == "" {
		return swaggerYAML
	}
	return bytes.Replace(swaggerYAML, []byte(versionLine), []byte("  version: "+version+"\n"), 1)
}

func uiHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// RegisterRoutes mounts the Swagger UI under /docs and the raw document at
// /docs/swagger.yaml.
func RegisterRoutes(r chi.Router, version string) {
	doc := Document(version)

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(docURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(doc)
	})
	r.Get("/docs/*", uiHandler())
}
