// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Create a student account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username already taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Logs a user in",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid username or password"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid or expired refresh token"}
                }
            }
        },
        "/folders": {
            "get": {
                "tags": ["folders"],
                "summary": "List folders under a parent with recursive counts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["folders"],
                "summary": "Create a folder",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate sibling name"}
                }
            }
        },
        "/folders/tree": {
            "get": {
                "tags": ["folders"],
                "summary": "Materialize the folder tree",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/folders/{folderId}": {
            "get": {
                "tags": ["folders"],
                "summary": "Folder detail with direct subfolders and resources",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["folders"],
                "summary": "Rename or reorder a folder",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Duplicate sibling name"}}
            },
            "delete": {
                "tags": ["folders"],
                "summary": "Delete an empty folder",
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Folder not empty"}}
            }
        },
        "/folders/{folderId}/move": {
            "post": {
                "tags": ["folders"],
                "summary": "Reparent a folder",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Move would create a cycle"}}
            }
        },
        "/folders/{folderId}/resource-count": {
            "get": {
                "tags": ["folders"],
                "summary": "Recursive resource count",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/resources": {
            "get": {
                "tags": ["resources"],
                "summary": "List resources",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["resources"],
                "summary": "Upload a resource",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/resources/{resourceId}/download": {
            "get": {
                "tags": ["resources"],
                "summary": "Download a resource",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["posts"],
                "summary": "Create a post",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/events": {
            "get": {
                "tags": ["events"],
                "summary": "Poll the activity journal",
                "responses": {"200": {"description": "OK"}}
            }
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

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "StudyShare API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
