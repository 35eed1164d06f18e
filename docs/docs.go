// Package docs holds the OpenAPI document served under /swagger.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {
            "post": {
                "tags": ["auth"], "summary": "Register a user",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Session"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/upload": {
            "post": {
                "tags": ["files"], "summary": "Upload a file", "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorPayload"}},
                    "413": {"description": "Too Large", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/myfiles": {
            "get": {
                "tags": ["files"], "summary": "List own files", "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/File"}}}}
            }
        },
        "/files/shared": {
            "get": {
                "tags": ["files"], "summary": "List files shared with the caller", "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/File"}}}}
            }
        },
        "/download/{id}": {
            "get": {
                "tags": ["files"], "summary": "Download a file by id", "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "No access", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/shared/{link}": {
            "get": {
                "tags": ["files"], "summary": "Download a file through a share link",
                "produces": ["application/octet-stream"],
                "parameters": [{"in": "path", "name": "link", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "No access", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/share": {
            "post": {
                "tags": ["sharing"], "summary": "Share a file with a registered user", "security": [{"BearerAuth": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ShareRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageResponse"}},
                    "404": {"description": "No access or unknown recipient", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/create-link": {
            "post": {
                "tags": ["sharing"], "summary": "Create a public share link", "security": [{"BearerAuth": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLinkRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Link"}},
                    "404": {"description": "No access", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"], "summary": "Readiness including the database",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Unavailable", "schema": {"$ref": "#/definitions/ErrorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "RegisterResponse": {"type": "object", "properties": {"message": {"type": "string"}, "id": {"type": "string"}}},
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "UserSummary": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}},
        "Session": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/UserSummary"}}},
        "File": {"type": "object", "properties": {
            "id": {"type": "string"}, "owner_id": {"type": "string"}, "stored_name": {"type": "string"},
            "original_name": {"type": "string"}, "size": {"type": "integer"}, "content_type": {"type": "string"},
            "created_at": {"type": "string"}
        }},
        "UploadResponse": {"type": "object", "properties": {"message": {"type": "string"}, "fileId": {"type": "string"}, "file": {"$ref": "#/definitions/File"}}},
        "ShareRequest": {"type": "object", "properties": {"fileId": {"type": "string"}, "email": {"type": "string"}}},
        "CreateLinkRequest": {"type": "object", "properties": {"fileId": {"type": "string"}}},
        "Link": {"type": "object", "properties": {"file_id": {"type": "string"}, "token": {"type": "string"}, "link": {"type": "string"}}},
        "MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "ErrorPayload": {"type": "object", "properties": {
            "request_id": {"type": "string"},
            "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "File Sharing API",
	Description:      "Upload files and share them with users or by link.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
