// Package docs registers the OpenAPI description served under /swagger.
// It follows the layout of swag init output and must list every @Router
// annotation in internal/handlers; TestSwaggerDocs_MatchAnnotations checks
// that. Regenerate with `swag init -g cmd/api/main.go` when the toolchain
// is available.
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
        "/blog/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Published post detail",
                "parameters": [
                    {"type": "integer", "description": "Post id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BlogDetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/blogs": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Create a post owned by the caller, published or as a draft",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Create post",
                "parameters": [
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BlogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateBlogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/blogs/{encodedId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Get own post",
                "parameters": [
                    {"type": "string", "description": "Encoded post id", "name": "encodedId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BlogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Update own post",
                "parameters": [
                    {"type": "string", "description": "Encoded post id", "name": "encodedId", "in": "path", "required": true},
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BlogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "Delete own post",
                "parameters": [
                    {"type": "string", "description": "Encoded post id", "name": "encodedId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/fetch-blogs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the caller's posts, newest first, drafts included",
                "produces": ["application/json"],
                "tags": ["blogs"],
                "summary": "List own posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.BlogListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if service and its database are healthy",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate with email and password and return a token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/public-blogs": {
            "get": {
                "description": "Paginated published posts, optionally filtered and ranked by a search term",
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "List published posts",
                "parameters": [
                    {"type": "integer", "description": "Page (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 6, max 50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PublicPage"}}
                }
            }
        },
        "/request-otp": {
            "post": {
                "description": "Store a pending signup and email a one-time passcode",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Start signup",
                "parameters": [
                    {"description": "Signup form", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RequestOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/search-suggestions": {
            "get": {
                "description": "Up to five title and author suggestions for a partial query",
                "produces": ["application/json"],
                "tags": ["public"],
                "summary": "Search suggestions",
                "parameters": [
                    {"type": "string", "description": "Partial query", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuggestionsResponse"}}
                }
            }
        },
        "/user/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Return the authenticated user's name",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/verify-otp": {
            "post": {
                "description": "Confirm the passcode, create the account and return a token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Complete signup",
                "parameters": [
                    {"description": "Email and passcode", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.VerifyOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.BlogDetail": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "content": {"type": "string"},
                "date": {"type": "string"},
                "encodedId": {"type": "string"},
                "id": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "handlers.BlogDetailResponse": {
            "type": "object",
            "properties": {
                "blog": {"$ref": "#/definitions/handlers.BlogDetail"}
            }
        },
        "handlers.BlogListResponse": {
            "type": "object",
            "properties": {
                "blogs": {"type": "array", "items": {"$ref": "#/definitions/handlers.BlogSummary"}},
                "message": {"type": "string"}
            }
        },
        "handlers.BlogRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "isDraft": {"type": "boolean"},
                "is_draft": {"type": "boolean"},
                "title": {"type": "string"}
            }
        },
        "handlers.BlogResponse": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "is_draft": {"type": "boolean"},
                "status": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.BlogSummary": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "is_draft": {"type": "boolean"},
                "status": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handlers.CreateBlogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handlers.ProfileResponse": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"}
            }
        },
        "handlers.RequestOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.SuggestionsResponse": {
            "type": "object",
            "properties": {
                "suggestions": {"type": "array", "items": {"$ref": "#/definitions/models.Suggestion"}}
            }
        },
        "handlers.VerifyOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "otp": {"type": "string"}
            }
        },
        "models.Suggestion": {
            "type": "object",
            "properties": {
                "suggestion": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "service.PublicPage": {
            "type": "object",
            "properties": {
                "blogs": {"type": "array", "items": {"$ref": "#/definitions/service.PublicPost"}},
                "currentPage": {"type": "integer"},
                "searchQuery": {"type": "string"},
                "totalBlogs": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "service.PublicPost": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "encodedId": {"type": "string"},
                "id": {"type": "integer"},
                "relevance": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "service.TokenResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"}
            }
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
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "Multi-author blogging API with passcode signup and public search",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
