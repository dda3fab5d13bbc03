package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Creche API",
        "description": "Student records, reports and exports for the creche office",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Auth", "description": "Staff sign-in and session"},
        {"name": "Students", "description": "Student records"},
        {"name": "Reports", "description": "Statistics and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "security": [],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the current session",
                "responses": {"204": {"description": "Signed out"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current staff profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students ordered by name",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "age", "type": "string", "enum": ["all", "0-1", "2-3", "4-5", "6+"]},
                    {"in": "query", "name": "status", "type": "string", "enum": ["all", "active", "inactive"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create a student",
                "parameters": [
                    {"in": "header", "name": "X-Form-Token", "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentForm"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Submission already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Export the filtered student list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "age", "type": "string"},
                    {"in": "query", "name": "status", "type": "string"}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace a student's record",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "header", "name": "X-Form-Token", "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/form": {
            "get": {
                "tags": ["Students"],
                "summary": "Student record as an editable form",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/stats": {
            "get": {
                "tags": ["Reports"],
                "summary": "Enrollment statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/recent": {
            "get": {
                "tags": ["Reports"],
                "summary": "Enrollments from the last 30 days",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export a report selection",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "selection", "type": "string", "description": "all, active, inactive, recent or age:<bracket>"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported selection or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/snapshot": {
            "get": {
                "summary": "Runtime metrics snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "StudentForm": {
            "type": "object",
            "required": ["name", "birthDate", "parentName", "parentPhone", "parentEmail", "address", "emergencyContact", "emergencyPhone", "enrollmentDate"],
            "properties": {
                "name": {"type": "string"},
                "birthDate": {"type": "string", "format": "date"},
                "parentName": {"type": "string"},
                "parentPhone": {"type": "string"},
                "parentEmail": {"type": "string"},
                "address": {"type": "string"},
                "medicalInfo": {"type": "string"},
                "allergies": {"type": "string", "description": "Comma separated"},
                "emergencyContact": {"type": "string"},
                "emergencyPhone": {"type": "string"},
                "enrollmentDate": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["active", "inactive"]},
                "profile": {"type": "object"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "birthDate": {"type": "string", "format": "date-time"},
                "age": {"type": "integer"},
                "parentName": {"type": "string"},
                "parentPhone": {"type": "string"},
                "parentEmail": {"type": "string"},
                "address": {"type": "string"},
                "medicalInfo": {"type": "string"},
                "allergies": {"type": "array", "items": {"type": "string"}},
                "emergencyContact": {"type": "string"},
                "emergencyPhone": {"type": "string"},
                "enrollmentDate": {"type": "string", "format": "date-time"},
                "status": {"type": "string"},
                "profile": {"type": "object"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "AgeBucket": {
            "type": "object",
            "properties": {
                "bracket": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "StudentStats": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "active": {"type": "integer"},
                "inactive": {"type": "integer"},
                "byAge": {"type": "array", "items": {"$ref": "#/definitions/AgeBucket"}},
                "recentEnrollments": {"type": "integer"},
                "computedAt": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
