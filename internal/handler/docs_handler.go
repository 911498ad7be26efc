package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
)

const swaggerCSP = "default-src 'self'; connect-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data:"

const swaggerPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Candidate Registry API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui', persistAuthorization: true });
    </script>
  </body>
</html>`

// DocsHandler serves the embedded OpenAPI document and a Swagger UI page that renders it.
type DocsHandler struct {
	spec []byte
	etag string
}

func NewDocsHandler(spec []byte) *DocsHandler {
	sum := sha256.Sum256(spec)
	return &DocsHandler{spec: spec, etag: strconv.Quote(hex.EncodeToString(sum[:8]))}
}

func (h *DocsHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	if len(h.spec) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "NOT_FOUND", "message": "API description not available"})
		return
	}

	w.Header().Set("ETag", h.etag)
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(h.spec)
}

func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Security-Policy", swaggerCSP)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerPage))
}
