// Package docs holds the OpenAPI document served at /api/v1/swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@autonation.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/protected/analytics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Automation, DM and post counts with the DM response rate",
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Automation analytics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Summary"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/protected/automations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the caller's automations, newest first, with all children attached",
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "List automations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Automation"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates an automation with its listener, optional trigger and keywords in one transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "Create an automation",
                "parameters": [
                    {"description": "Automation", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.CreateAutomationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Automation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/protected/automations/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "Get an automation",
                "parameters": [{"type": "string", "description": "Automation ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Automation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Partial update; keywords, when supplied, replace the whole set",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automations"],
                "summary": "Update an automation",
                "parameters": [
                    {"type": "string", "description": "Automation ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.UpdateAutomationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Automation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes the automation and its trigger, listener, keywords, posts and DMs",
                "tags": ["automations"],
                "summary": "Delete an automation",
                "parameters": [{"type": "string", "description": "Automation ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/protected/integrations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["integrations"],
                "summary": "List connected integrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Integration"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/protected/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Creates the user from the token claims on first access",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get or create the caller's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update the caller's profile",
                "parameters": [
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/protected/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the user with subscription, integrations and automations",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the full user record",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "API status",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.Automation": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "dms": {"type": "array", "items": {"$ref": "#/definitions/models.Dm"}},
                "id": {"type": "string"},
                "keywords": {"type": "array", "items": {"$ref": "#/definitions/models.Keyword"}},
                "listener": {"$ref": "#/definitions/models.Listener"},
                "name": {"type": "string"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "trigger": {"$ref": "#/definitions/models.Trigger"},
                "updatedAt": {"type": "string"},
                "userId": {"type": "string"}
            }
        },
        "models.Dm": {
            "type": "object",
            "properties": {
                "automationId": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "message": {"type": "string"},
                "receiver": {"type": "string"},
                "senderId": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.Integration": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "expiresAt": {"type": "string"},
                "id": {"type": "string"},
                "instagramId": {"type": "string"},
                "name": {"type": "string", "enum": ["INSTAGRAM"]},
                "userId": {"type": "string"}
            }
        },
        "models.Keyword": {
            "type": "object",
            "properties": {
                "automationId": {"type": "string"},
                "id": {"type": "string"},
                "word": {"type": "string"}
            }
        },
        "models.Listener": {
            "type": "object",
            "properties": {
                "automationId": {"type": "string"},
                "commentCount": {"type": "integer"},
                "commentReply": {"type": "string"},
                "dmCount": {"type": "integer"},
                "id": {"type": "string"},
                "listener": {"type": "string", "enum": ["MESSAGE", "SMARTAI"]},
                "prompt": {"type": "string"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "automationId": {"type": "string"},
                "caption": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "media": {"type": "string"},
                "mediaType": {"type": "string", "enum": ["IMAGE", "VIDEO", "CAROUSEL_ALBUM"]},
                "postid": {"type": "string"}
            }
        },
        "models.Subscription": {
            "type": "object",
            "properties": {
                "customerId": {"type": "string"},
                "id": {"type": "string"},
                "plan": {"type": "string", "enum": ["FREE", "PRO"]},
                "userId": {"type": "string"}
            }
        },
        "models.Trigger": {
            "type": "object",
            "properties": {
                "automationId": {"type": "string"},
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["COMMENT", "DM", "MENTION"]}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "automations": {"type": "array", "items": {"$ref": "#/definitions/models.Automation"}},
                "clerkId": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "id": {"type": "string"},
                "integrations": {"type": "array", "items": {"$ref": "#/definitions/models.Integration"}},
                "lastName": {"type": "string"},
                "subscription": {"$ref": "#/definitions/models.Subscription"},
                "updatedAt": {"type": "string"}
            }
        },
        "server.CreateAutomationRequest": {
            "type": "object",
            "properties": {
                "commentReply": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}, "example": ["price", "cost"]},
                "listenerType": {"type": "string", "example": "MESSAGE"},
                "name": {"type": "string", "example": "Pricing replies"},
                "prompt": {"type": "string"},
                "triggerType": {"type": "string", "example": "COMMENT"}
            }
        },
        "server.UpdateAutomationRequest": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "commentReply": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string"},
                "prompt": {"type": "string"}
            }
        },
        "server.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "service.Summary": {
            "type": "object",
            "properties": {
                "activeAutomations": {"type": "integer"},
                "responseRate": {"type": "integer"},
                "totalAutomations": {"type": "integer"},
                "totalDms": {"type": "integer"},
                "totalPosts": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the identity provider token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "AutoNation API",
	Description:      "Instagram auto-reply automations: keywords, listeners, triggers and analytics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
