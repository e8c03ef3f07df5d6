// Package docs holds the Swagger document served under /swagger. It is kept
// by hand in the layout swag emits, so it has to follow the godoc annotations
// on the handlers.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["root"],
                "summary": "Show the status of server.",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/user/registration": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Register new user",
                "parameters": [{"in": "body", "name": "register", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterUserRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "400": {"description": "Validation error or email already exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "User login",
                "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenPairResponse"}},
                    "400": {"description": "Invalid credentials or identifier", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/user/renew_tokens": {
            "post": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Renew tokens",
                "parameters": [{"type": "string", "description": "Refresh token", "name": "refresh_token", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenPairResponse"}},
                    "401": {"description": "Invalid, expired or already used refresh token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/user/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserResponse"}}}
            }
        },
        "/create-bucket/": {
            "post": {"tags": ["storage"], "summary": "Create a bucket", "responses": {"200": {"description": "OK"}}}
        },
        "/create-folder/": {
            "post": {"tags": ["storage"], "summary": "Create a folder", "responses": {"200": {"description": "OK"}}}
        },
        "/fileupload/": {
            "post": {"consumes": ["multipart/form-data"], "tags": ["storage"], "summary": "Upload a file", "responses": {"200": {"description": "OK"}}}
        },
        "/fileuploads/": {
            "post": {"consumes": ["multipart/form-data"], "tags": ["storage"], "summary": "Upload several files", "responses": {"200": {"description": "OK"}}}
        },
        "/filereview/": {
            "get": {"tags": ["storage"], "summary": "List files in a folder", "responses": {"200": {"description": "OK"}}}
        },
        "/filedelete/": {
            "delete": {"tags": ["storage"], "summary": "Delete a file", "responses": {"200": {"description": "OK"}}}
        },
        "/filesdelete/": {
            "delete": {"tags": ["storage"], "summary": "Delete several files", "responses": {"200": {"description": "OK"}}}
        },
        "/folderdelete/": {
            "delete": {"tags": ["storage"], "summary": "Delete a folder", "responses": {"200": {"description": "OK"}}}
        },
        "/bucketdelete/": {
            "delete": {"tags": ["storage"], "summary": "Delete a bucket", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "dto.RegisterUserRequest": {
            "type": "object",
            "required": ["email", "first_name", "last_name", "mobile", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "mobile": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string", "maxLength": 50, "minLength": 3}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "dto.TokenPairResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Knowledge Hub API",
	Description:      "User accounts and folder based document storage on top of an object store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
