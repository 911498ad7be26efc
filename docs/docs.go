// Package docs embeds the published API description.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
