// Package openapi holds the catalog and recommendation API description.
package openapi

import _ "embed"

// YAML is the OpenAPI 3 document served at /openapi.yaml and rendered by /docs.
//
//go:embed openapi.yaml
var YAML []byte
