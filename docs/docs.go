// Package docs registers the OpenAPI description served under /docs. It is
// kept by hand in step with the swag annotations on the HTTP handlers.
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
        "/devices/{mac}/command/ir": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commands"],
                "summary": "Send an infrared command",
                "parameters": [
                    {"type": "string", "description": "Device MAC", "name": "mac", "in": "path", "required": true},
                    {"description": "IR code", "name": "command", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.irCommandRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/api.irCommandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/devices/{mac}/command/relay": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Authorizes the caller against the device and publishes the command to the broker. 202 means the broker accepted the message, not that the device executed it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["commands"],
                "summary": "Send a relay command",
                "parameters": [
                    {"type": "string", "description": "Device MAC", "name": "mac", "in": "path", "required": true},
                    {"description": "Relay action", "name": "command", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.relayCommandRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/api.relayCommandResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.healthResponse"}}
                }
            }
        },
        "/internal/notifications/service": {
            "post": {
                "description": "Answers immediately; the notification and email are produced by a background worker.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["internal"],
                "summary": "Ingest a device alert",
                "parameters": [
                    {"description": "Alert", "name": "alert", "in": "body", "required": true, "schema": {"$ref": "#/definitions/alerts.Event"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.webhookResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.webhookResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.webhookResponse"}}
                }
            }
        },
        "/internal/notifications/service/sync": {
            "post": {
                "description": "Debugging variant of the alert webhook.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["internal"],
                "summary": "Ingest a device alert synchronously",
                "parameters": [
                    {"description": "Alert", "name": "alert", "in": "body", "required": true, "schema": {"$ref": "#/definitions/alerts.Event"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/alerts.Result"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.webhookResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notifications",
                "parameters": [
                    {"type": "boolean", "description": "Only unread", "name": "unread", "in": "query"},
                    {"type": "integer", "description": "Max items (default 50, max 200)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/notifications.Notification"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/notifications/read-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark all notifications read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.countResponse"}}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Count unread notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.countResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Set read state",
                "parameters": [
                    {"type": "integer", "description": "Notification ID", "name": "id", "in": "path", "required": true},
                    {"description": "Read state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.setReadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/notifications.Notification"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "alerts.Event": {
            "type": "object",
            "properties": {
                "error_type": {"type": "string", "enum": ["TIMEOUT", "OFFLINE", "ERROR", "WARNING", "CRITICAL", "MAINTENANCE"], "example": "TIMEOUT"},
                "mac": {"type": "string", "example": "CC:DB:A7:2F:AE:B0"},
                "message": {"type": "string", "example": "device offline"}
            }
        },
        "alerts.Result": {
            "type": "object",
            "properties": {
                "device_id": {"type": "integer"},
                "email_sent": {"type": "boolean"},
                "error": {"type": "string"},
                "mac": {"type": "string"},
                "notification_id": {"type": "integer"},
                "success": {"type": "boolean"},
                "user_id": {"type": "integer"}
            }
        },
        "api.countResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer", "example": 3}}
        },
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "device not found"}}
        },
        "api.healthResponse": {
            "type": "object",
            "properties": {
                "broker": {"type": "string", "example": "connected"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "api.irCommandRequest": {
            "type": "object",
            "properties": {"code": {"type": "string", "example": "0x20DF10EF"}}
        },
        "api.irCommandResponse": {
            "type": "object",
            "properties": {
                "code_sent": {"type": "string", "example": "0x20DF10EF"},
                "device_mac": {"type": "string", "example": "AA:BB:CC:DD:EE:FF"},
                "status": {"type": "string", "example": "command accepted for publish"}
            }
        },
        "api.relayCommandRequest": {
            "type": "object",
            "properties": {"action": {"type": "string", "enum": ["ON", "OFF"], "example": "ON"}}
        },
        "api.relayCommandResponse": {
            "type": "object",
            "properties": {
                "action_sent": {"type": "string", "example": "ON"},
                "device_mac": {"type": "string", "example": "AA:BB:CC:DD:EE:FF"},
                "status": {"type": "string", "example": "command accepted for publish"}
            }
        },
        "api.setReadRequest": {
            "type": "object",
            "properties": {"is_read": {"type": "boolean", "example": true}}
        },
        "api.webhookResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "mac": {"type": "string", "example": "CC:DB:A7:2F:AE:B0"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "notifications.Notification": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "device_id": {"type": "integer", "example": 7},
                "id": {"type": "integer", "example": 11},
                "is_read": {"type": "boolean"},
                "message": {"type": "string", "example": "[TIMEOUT] device offline"},
                "user_id": {"type": "integer", "example": 42}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "device-io API",
	Description:      "Device command dispatch and alert ingestion.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
