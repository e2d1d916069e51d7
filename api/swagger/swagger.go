package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Records API",
        "description": "Admin-facing academic records service with uniform, descriptor-driven CRUD resources",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Users", "description": "Accounts for administrators, teachers and students"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Programs", "description": "Degree programs"},
        {"name": "Academic Records", "description": "Per-student course results"},
        {"name": "Attendances", "description": "Per-student attendance entries"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "fields", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemEnvelope"}},
                    "409": {"description": "Duplicate value", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {"tags": ["Courses"], "summary": "List courses", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}}},
            "post": {"tags": ["Courses"], "summary": "Create course", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["Courses"], "summary": "Get course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "put": {"tags": ["Courses"], "summary": "Update course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "delete": {"tags": ["Courses"], "summary": "Delete course", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/programs": {
            "get": {"tags": ["Programs"], "summary": "List programs", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}}},
            "post": {"tags": ["Programs"], "summary": "Create program", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/programs/{id}": {
            "get": {"tags": ["Programs"], "summary": "Get program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "put": {"tags": ["Programs"], "summary": "Update program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "delete": {"tags": ["Programs"], "summary": "Delete program", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/academic-records": {
            "get": {"tags": ["Academic Records"], "summary": "List academic records", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}}},
            "post": {"tags": ["Academic Records"], "summary": "Create academic record", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/academic-records/{id}": {
            "get": {"tags": ["Academic Records"], "summary": "Get academic record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "put": {"tags": ["Academic Records"], "summary": "Update academic record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "delete": {"tags": ["Academic Records"], "summary": "Delete academic record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/attendances": {
            "get": {"tags": ["Attendances"], "summary": "List attendances", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}}},
            "post": {"tags": ["Attendances"], "summary": "Create attendance", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        },
        "/attendances/{id}": {
            "get": {"tags": ["Attendances"], "summary": "Get attendance", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "put": {"tags": ["Attendances"], "summary": "Update attendance", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}},
            "delete": {"tags": ["Attendances"], "summary": "Delete attendance", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}}}}
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "pages": {"type": "integer"},
                "hasNext": {"type": "boolean"},
                "hasPrev": {"type": "boolean"}
            }
        },
        "ListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "count": {"type": "integer"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "data": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ItemEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "details": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
