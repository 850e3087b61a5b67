// Package docs holds the OpenAPI description served at /api-docs.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/invoices/totals": {
            "post": {
                "description": "Derive subtotal, PPN, PPh and grand total from an invoice state",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Compute invoice totals",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TotalsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/actions": {
            "post": {
                "description": "Run editor actions in order and return the new state, its totals and the notices shown",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Apply edits to an invoice",
                "parameters": [{"description": "Invoice state and actions", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ActionsRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.StateResponse"}},
                    "400": {"description": "Malformed request or unknown action", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Action rejected", "schema": {"$ref": "#/definitions/model.NoticeErrorResponse"}}
                }
            }
        },
        "/v1/invoices/share": {
            "post": {
                "description": "Encode the invoice into a token carried by the preview query parameter",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Create a share link",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ShareResponse"}}
                }
            }
        },
        "/v1/invoices/preview": {
            "get": {
                "description": "Decode the preview token. An unreadable token yields the default invoice with shared=false.",
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Open a shared invoice",
                "parameters": [{"type": "string", "description": "Share token", "name": "preview", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.PreviewResponse"}}
                }
            }
        },
        "/v1/invoices/number": {
            "post": {
                "description": "Advance the invoice counter and set the new number on the given invoice",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Generate an invoice number",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.NumberResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/pdf": {
            "post": {
                "description": "Render the invoice as an A4 PDF. Requires an invoice number.",
                "consumes": ["application/json"],
                "produces": ["application/pdf"],
                "tags": ["invoices"],
                "summary": "Export PDF",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Missing invoice number", "schema": {"$ref": "#/definitions/model.NoticeErrorResponse"}},
                    "409": {"description": "Export already running", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/invoices/print": {
            "post": {
                "description": "Render an HTML page whose print stylesheet shows only the invoice",
                "consumes": ["application/json"],
                "produces": ["text/html"],
                "tags": ["invoices"],
                "summary": "Export print page",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}}
                }
            }
        },
        "/v1/invoices/email": {
            "post": {
                "description": "Build the email body and mailto link for the client. Requires a client email.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Compose invoice email",
                "parameters": [{"description": "Invoice state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.EmailResponse"}},
                    "400": {"description": "Missing client email", "schema": {"$ref": "#/definitions/model.NoticeErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.StateRequest": {"type": "object", "properties": {"state": {"type": "object"}}},
        "model.ActionDTO": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "example": "updateService"},
                "id": {"type": "integer", "example": 1},
                "field": {"type": "string", "example": "qty"},
                "role": {"type": "string", "example": "finance"},
                "name": {"type": "string"},
                "position": {"type": "string"},
                "value": {"type": "string", "example": "2"},
                "state": {"type": "object"}
            }
        },
        "model.ActionsRequest": {
            "type": "object",
            "required": ["actions"],
            "properties": {
                "state": {"type": "object"},
                "actions": {"type": "array", "items": {"$ref": "#/definitions/model.ActionDTO"}}
            }
        },
        "model.TotalsDisplay": {
            "type": "object",
            "properties": {"subtotal": {"type": "string"}, "ppn": {"type": "string"}, "pph": {"type": "string"}, "grandTotal": {"type": "string"}}
        },
        "model.TotalsDTO": {
            "type": "object",
            "properties": {
                "subtotal": {"type": "string"}, "ppn": {"type": "string"}, "pph": {"type": "string"}, "grandTotal": {"type": "string"},
                "display": {"$ref": "#/definitions/model.TotalsDisplay"}
            }
        },
        "model.TotalsResponse": {"type": "object", "properties": {"totals": {"$ref": "#/definitions/model.TotalsDTO"}}},
        "notify.Notice": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "type": {"type": "string"}, "shownAt": {"type": "string"}}
        },
        "model.StateResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "object"},
                "totals": {"$ref": "#/definitions/model.TotalsDTO"},
                "notices": {"type": "array", "items": {"$ref": "#/definitions/notify.Notice"}}
            }
        },
        "model.ShareResponse": {"type": "object", "properties": {"token": {"type": "string"}, "url": {"type": "string"}}},
        "model.PreviewResponse": {
            "type": "object",
            "properties": {"state": {"type": "object"}, "totals": {"$ref": "#/definitions/model.TotalsDTO"}, "shared": {"type": "boolean"}}
        },
        "model.NumberResponse": {"type": "object", "properties": {"number": {"type": "string"}, "state": {"type": "object"}}},
        "model.EmailResponse": {
            "type": "object",
            "properties": {"to": {"type": "string"}, "from": {"type": "string"}, "subject": {"type": "string"}, "body": {"type": "string"}, "mailto": {"type": "string"}}
        },
        "model.ErrorDetail": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}},
        "model.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "message": {"type": "string"}, "details": {"type": "array", "items": {"$ref": "#/definitions/model.ErrorDetail"}}}
        },
        "model.NoticeErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}, "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/model.ErrorDetail"}},
                "notices": {"type": "array", "items": {"$ref": "#/definitions/notify.Notice"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invoice Generator API",
	Description:      "Author Indonesian service invoices, compute PPN/PPh totals, share them by link and export PDF or print pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
