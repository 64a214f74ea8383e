// Package docs holds the swagger spec for the btreeinspect server.
// It is written by hand in the shape swag init produces so the
// inspector's /swagger/*any route has something to serve without
// requiring the swag code generator to run.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tree/stats": {
            "get": {
                "summary": "Report the tree's size",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tree/wellformed": {
            "get": {
                "summary": "Check the tree's structural invariants",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tree/range": {
            "get": {
                "summary": "List items with id in [from, to]",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tree/items/{id}": {
            "get": {
                "summary": "Point lookup by id",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tree/items": {
            "post": {
                "summary": "Insert or replace items",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported swagger spec info, registered with swag
// at init time and served as is.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "btreeinspect",
	Description:      "Browse and mutate an in-memory btree.Tree over HTTP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
