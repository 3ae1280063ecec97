// Package docs registra la definición OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
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
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        },
        "/plans": {
            "get": {
                "tags": ["plans"],
                "summary": "Listar planes de tratamiento",
                "parameters": [{"type": "string", "description": "Fecha de referencia YYYY-MM-DD", "name": "date", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/tracker.planResponse"}}},
                    "400": {"description": "date inválida", "schema": {"type": "string"}}
                }
            },
            "post": {
                "tags": ["plans"],
                "summary": "Crear plan de tratamiento",
                "parameters": [{"description": "Plan de tratamiento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tracker.planRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/plans.TreatmentPlan"}},
                    "400": {"description": "invalid json / validación", "schema": {"type": "string"}},
                    "409": {"description": "plan already exists", "schema": {"type": "string"}},
                    "500": {"description": "changes applied but not persisted", "schema": {"type": "string"}}
                }
            }
        },
        "/plans/{planID}": {
            "get": {
                "tags": ["plans"],
                "summary": "Obtener plan",
                "parameters": [{"type": "string", "description": "ID del plan", "name": "planID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plans.TreatmentPlan"}},
                    "404": {"description": "plan not found", "schema": {"type": "string"}}
                }
            },
            "put": {
                "tags": ["plans"],
                "summary": "Editar plan de tratamiento",
                "parameters": [
                    {"type": "string", "description": "ID del plan", "name": "planID", "in": "path", "required": true},
                    {"description": "Plan de tratamiento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/tracker.planRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/plans.TreatmentPlan"}},
                    "400": {"description": "invalid json / validación", "schema": {"type": "string"}},
                    "404": {"description": "plan not found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "tags": ["plans"],
                "summary": "Eliminar plan de tratamiento",
                "parameters": [{"type": "string", "description": "ID del plan", "name": "planID", "in": "path", "required": true}],
                "responses": {"204": {"description": "sin contenido"}}
            }
        },
        "/plans/{planID}/doses": {
            "get": {
                "tags": ["doses"],
                "summary": "Dosis de un plan",
                "parameters": [{"type": "string", "description": "ID del plan", "name": "planID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/doses.Dose"}}},
                    "404": {"description": "plan not found", "schema": {"type": "string"}}
                }
            }
        },
        "/doses": {
            "get": {
                "tags": ["doses"],
                "summary": "Listar dosis",
                "parameters": [{"type": "string", "description": "Fecha YYYY-MM-DD", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/doses.Dose"}}}}
            }
        },
        "/doses/{doseID}/toggle": {
            "post": {
                "tags": ["doses"],
                "summary": "Marcar/desmarcar dosis como tomada",
                "parameters": [{"type": "string", "description": "ID de la dosis", "name": "doseID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/doses.Dose"}},
                    "404": {"description": "dose not found", "schema": {"type": "string"}}
                }
            }
        },
        "/today": {
            "get": {
                "tags": ["doses"],
                "summary": "Dosis del día",
                "parameters": [{"type": "string", "description": "Fecha YYYY-MM-DD", "name": "date", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/doses.TodayView"}}}
            }
        },
        "/medications/info": {
            "get": {
                "tags": ["medications"],
                "summary": "Información de un medicamento",
                "parameters": [{"type": "string", "description": "Nombre del medicamento", "name": "name", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/tracker.infoResponse"}},
                    "400": {"description": "medication name required", "schema": {"type": "string"}},
                    "502": {"description": "medication info unavailable", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "plans.Medication": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "dosage": {"type": "string"},
                "timesPerDay": {"type": "integer"},
                "firstDoseTime": {"type": "string"}
            }
        },
        "plans.TreatmentPlan": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startDate": {"type": "string"},
                "durationDays": {"type": "integer"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/plans.Medication"}}
            }
        },
        "tracker.planRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startDate": {"type": "string"},
                "durationDays": {"type": "integer"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/plans.Medication"}}
            }
        },
        "tracker.planResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startDate": {"type": "string"},
                "durationDays": {"type": "integer"},
                "medications": {"type": "array", "items": {"$ref": "#/definitions/plans.Medication"}},
                "active": {"type": "boolean"}
            }
        },
        "tracker.infoResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "doses.Dose": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "planId": {"type": "string"},
                "planName": {"type": "string"},
                "medicationId": {"type": "string"},
                "medicationName": {"type": "string"},
                "dosage": {"type": "string"},
                "time": {"type": "string"},
                "date": {"type": "string"},
                "taken": {"type": "boolean"}
            }
        },
        "doses.TodayView": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "total": {"type": "integer"},
                "takenCount": {"type": "integer"},
                "pendingCount": {"type": "integer"},
                "pending": {"type": "array", "items": {"$ref": "#/definitions/doses.Dose"}},
                "taken": {"type": "array", "items": {"$ref": "#/definitions/doses.Dose"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Medication Tracker API",
	Description:      "Planes de tratamiento, dosis generadas y seguimiento diario de tomas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
