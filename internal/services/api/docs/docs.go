// Package docs registers the OpenAPI document served under /api/docs.
// swag init -g cmd/bluebird-api/main.go -o internal/services/api/docs --v3.1
// replaces the template below with the full annotated spec
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "tags": [
        {"name": "Meta"},
        {"name": "Auth"},
        {"name": "Occurrences"},
        {"name": "Charts"},
        {"name": "Documents"}
    ],
    "paths": {}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Blue Bird API",
	Description:      "Occurrence monitoring, charts, documents and n8n webhooks for the Blue Bird operations dashboard",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
