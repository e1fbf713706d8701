// Package docs registers the OpenAPI document served by the swagger build of
// the HTTP API. Regenerate with `swag init -g cmd/guidekit/docs.go -o internal/httpapi/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {"get": {"tags": ["session"], "summary": "Current session", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SessionResponse"}}}}},
        "/session/login": {"post": {"tags": ["session"], "summary": "Start a login", "consumes": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}],
            "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/session/logout": {"post": {"tags": ["session"], "summary": "Log out", "responses": {"202": {"description": "Accepted"}}}},
        "/session/cancel": {"post": {"tags": ["session"], "summary": "Cancel a login in progress", "responses": {"202": {"description": "Accepted"}}}},
        "/session/site": {"post": {"tags": ["session"], "summary": "Change the current site", "consumes": ["application/json"],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.SiteRequest"}}],
            "responses": {"202": {"description": "Accepted"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/sites": {"get": {"tags": ["sites"], "summary": "Search sites", "produces": ["application/json"],
            "parameters": [{"in": "query", "name": "q", "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SitesResponse"}}}}},
        "/topics": {"get": {"tags": ["topics"], "summary": "Search topics of the open topic browser", "produces": ["application/json"],
            "parameters": [{"in": "query", "name": "q", "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TopicsResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/screens": {
            "get": {"tags": ["screens"], "summary": "List live screens", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScreensResponse"}}}},
            "post": {"tags": ["screens"], "summary": "Open a screen", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.OpenScreenRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScreenStatus"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/screens/{id}/{action}": {"post": {"tags": ["screens"], "summary": "Apply a lifecycle action to a screen", "produces": ["application/json"],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "action", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScreenStatus"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/events": {"get": {"tags": ["events"], "summary": "Recent bus events", "produces": ["application/json"],
            "parameters": [{"in": "query", "name": "limit", "type": "integer"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EventsResponse"}}}}}
    },
    "definitions": {
        "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
        "types.Site": {"type": "object", "properties": {"name": {"type": "string"}, "title": {"type": "string"}, "domain": {"type": "string"}, "public": {"type": "boolean"}, "theme": {"type": "string"}, "description": {"type": "string"}}},
        "types.UserView": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}}},
        "types.SessionResponse": {"type": "object", "properties": {"site": {"$ref": "#/definitions/types.Site"}, "user": {"$ref": "#/definitions/types.UserView"}, "authenticating": {"type": "boolean"}}},
        "types.LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "types.SiteRequest": {"type": "object", "properties": {"name": {"type": "string"}}},
        "types.SitesResponse": {"type": "object", "properties": {"sites": {"type": "array", "items": {"$ref": "#/definitions/types.Site"}}}},
        "types.TopicMatch": {"type": "object", "properties": {"name": {"type": "string"}, "leaf": {"type": "boolean"}}},
        "types.TopicsResponse": {"type": "object", "properties": {"query": {"type": "string"}, "matches": {"type": "array", "items": {"$ref": "#/definitions/types.TopicMatch"}}}},
        "types.OpenScreenRequest": {"type": "object", "properties": {"kind": {"type": "string"}, "requires_auth": {"type": "boolean"}}},
        "types.ScreenStatus": {"type": "object", "properties": {"id": {"type": "string"}, "kind": {"type": "string"}, "state": {"type": "string"}, "requires_auth": {"type": "boolean"}, "never_destroy": {"type": "boolean"}, "overlays": {"type": "array", "items": {"type": "string"}}}},
        "types.ScreensResponse": {"type": "object", "properties": {"screens": {"type": "array", "items": {"$ref": "#/definitions/types.ScreenStatus"}}}},
        "types.EventRecord": {"type": "object", "properties": {"tag": {"type": "string"}, "at_unix_ms": {"type": "integer"}, "error": {"type": "string"}}},
        "types.EventsResponse": {"type": "object", "properties": {"events": {"type": "array", "items": {"$ref": "#/definitions/types.EventRecord"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "guidekit API",
	Description:      "Debug and inspection API for the guidekit session and screen core.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
