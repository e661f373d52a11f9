// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go`.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a client account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Obtain an access/refresh pair", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Exchange a refresh token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Revoke a refresh token", "responses": {"200": {"description": "OK"}}}},
        "/auth/2fa/setup": {"get": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Start TOTP enrolment", "responses": {"200": {"description": "OK"}}}},
        "/auth/2fa/verify": {"post": {"tags": ["auth"], "summary": "Verify a TOTP code", "responses": {"200": {"description": "OK"}}}},
        "/me": {
            "get": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Current user and profile", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Update profile", "responses": {"200": {"description": "OK"}}}
        },
        "/applications": {
            "get": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "List visible applications", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "Create an application", "responses": {"201": {"description": "Created"}}}
        },
        "/applications/{id}/status": {"patch": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "Change status", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/documents": {"post": {"tags": ["documents"], "security": [{"BearerAuth": []}], "summary": "Register an uploaded document", "responses": {"201": {"description": "Created"}}}},
        "/bookings": {"post": {"tags": ["bookings"], "security": [{"BearerAuth": []}], "summary": "Book a slot", "responses": {"201": {"description": "Created"}, "409": {"description": "Slot full"}}}},
        "/billing/invoices": {"post": {"tags": ["billing"], "security": [{"BearerAuth": []}], "summary": "Issue an invoice", "responses": {"201": {"description": "Created"}}}},
        "/communications/messages": {"post": {"tags": ["communications"], "security": [{"BearerAuth": []}], "summary": "Send a message", "responses": {"201": {"description": "Created"}}}},
        "/content/pages/{slug}": {"get": {"tags": ["content"], "summary": "Localized page content", "responses": {"200": {"description": "OK"}}}},
        "/audit-logs": {"get": {"tags": ["audit"], "security": [{"BearerAuth": []}], "summary": "Search the audit trail", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Casework API",
	Description:      "Case management backend for an immigration consultancy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
