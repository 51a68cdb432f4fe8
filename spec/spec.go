// Package spec holds the OpenAPI description of the HTTP API.
//
// The document lists every route with its full /api path. internal/docs
// rewrites the info block, servers and path prefixes from the documentation
// settings before serving it.
package spec

import _ "embed"

// OpenAPI is openapi.yaml as written in the repository.
//
//go:embed openapi.yaml
var OpenAPI []byte
