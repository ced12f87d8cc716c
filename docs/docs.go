// Package docs registers the OpenAPI document served under /swagger.
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
        "/user/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in and receive a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/user/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Revoke the presented token",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/user/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get the caller's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserProfile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Update the caller's profile",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdateProfileParams"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserProfile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete the caller's account and journal entries",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/user/profile/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Change the caller's password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.ChangePasswordRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/auth/request-password-reset": {
            "post": {
                "tags": ["Auth"],
                "summary": "Email a password reset link",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.RequestPasswordResetRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Set a new password with a reset token",
                "parameters": [
                    {"in": "query", "name": "token", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/journal-entries": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "Create a journal entry",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateJournalEntryRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/types.JournalEntry"}}}
            }
        },
        "/journal-entries/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "List the caller's journal entries",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JournalEntryList"}}}
            }
        },
        "/journal-entries/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "Get a journal entry",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JournalEntry"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "Update a journal entry",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdateJournalEntryParams"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JournalEntry"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "Delete a journal entry",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/public/journal-entries": {
            "get": {
                "tags": ["Journal"],
                "summary": "List public journal entries",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JournalEntryList"}}}
            }
        },
        "/search/journal-entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Journal"],
                "summary": "Full-text search over the caller's entries",
                "parameters": [{"in": "query", "name": "q", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JournalEntryList"}}}
            }
        },
        "/status": {
            "get": {
                "tags": ["Stats"],
                "summary": "Service status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Stats"],
                "summary": "Global counts",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatsResponse"}}}
            }
        },
        "/user/{id}/journal-entries/count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Stats"],
                "summary": "Count a user's journal entries",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserEntryCountResponse"}}}
            }
        }
    },
    "definitions": {
        "types.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "types.RegisterRequest": {
            "type": "object",
            "required": ["fullName", "nickname", "email", "password"],
            "properties": {
                "fullName": {"type": "string"},
                "nickname": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "types.RegisterResponse": {
            "type": "object",
            "properties": {"userId": {"type": "string"}}
        },
        "types.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "types.TokenResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "types.UserProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fullName": {"type": "string"},
                "nickname": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "types.UpdateProfileParams": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "nickname": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "types.ChangePasswordRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "newPassword": {"type": "string"}}
        },
        "types.RequestPasswordResetRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}}
        },
        "types.ResetPasswordRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "types.JournalEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "authorId": {"type": "string"},
                "authorName": {"type": "string"},
                "isPublic": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "types.CreateJournalEntryRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "date": {"type": "string"},
                "isPublic": {"type": "boolean"}
            }
        },
        "types.UpdateJournalEntryParams": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "isPublic": {"type": "boolean"}
            }
        },
        "types.JournalEntryList": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/types.JournalEntry"}},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "db": {"type": "string"}}
        },
        "types.StatsResponse": {
            "type": "object",
            "properties": {"users": {"type": "integer"}, "journalEntries": {"type": "integer"}}
        },
        "types.UserEntryCountResponse": {
            "type": "object",
            "properties": {"userId": {"type": "string"}, "userEntries": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "JournalHub API",
	Description:      "Personal journaling backend with accounts, entries and search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
