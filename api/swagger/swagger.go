package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HUB Grade Planner API",
        "description": "Grade computation, GPA forecasting and cohort ranking for HUB students",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Subject grading, snapshots and the dashboard"},
        {"name": "Imports", "description": "Portal transcript import"},
        {"name": "Peers", "description": "Cohort datasets and rank forecasts"},
        {"name": "Catalog", "description": "Programmes and required credits"},
        {"name": "Exports", "description": "Transcript rendering and signed downloads"}
    ],
    "paths": {
        "/policy": {
            "get": {
                "tags": ["Planner"],
                "summary": "Active grading regulation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades/subject": {
            "post": {
                "tags": ["Planner"],
                "summary": "Grade one subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid scores", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/template": {
            "get": {
                "tags": ["Planner"],
                "summary": "Blank four-year planner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/normalize": {
            "post": {
                "tags": ["Planner"],
                "summary": "Fill defaults, ids and term tags of a snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Snapshot"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/summary": {
            "post": {
                "tags": ["Planner"],
                "summary": "Dashboard summary of a snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SummaryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/forecast": {
            "post": {
                "tags": ["Planner"],
                "summary": "GPA required on the remaining credits",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForecastRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid position", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/transcript": {
            "post": {
                "tags": ["Imports"],
                "summary": "Import a portal transcript into a snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TranscriptImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No semester found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/peers/datasets": {
            "get": {
                "tags": ["Peers"],
                "summary": "List peer datasets with their last sync",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/peers/datasets/{id}/sync": {
            "post": {
                "tags": ["Peers"],
                "summary": "Queue a refresh of one dataset",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown dataset", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Sync worker not running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rankings/forecast": {
            "post": {
                "tags": ["Peers"],
                "summary": "Forecast rank within a cohort",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RankForecastRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Nothing to rank", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Dataset unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Programmes, majors and required credits",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/transcript": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render the transcript as CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Rendered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered transcript",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScoreInput": {
            "type": "object",
            "properties": {
                "attendance": {"type": "number", "minimum": 0, "maximum": 10},
                "process": {"type": "number", "minimum": 0, "maximum": 10},
                "midterm": {"type": "number", "minimum": 0, "maximum": 10},
                "final": {"type": "number", "minimum": 0, "maximum": 10}
            }
        },
        "Subject": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "credits": {"type": "integer", "minimum": 0},
                "scores": {"$ref": "#/definitions/ScoreInput"},
                "excluded_from_gpa": {"type": "boolean"}
            }
        },
        "Term": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "index": {"type": "integer"},
                "summer": {"type": "boolean"},
                "academic_year": {"type": "string"}
            }
        },
        "Semester": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "term": {"$ref": "#/definitions/Term"},
                "training_score": {"type": "integer", "minimum": 0, "maximum": 100},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/Subject"}}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "student_name": {"type": "string"},
                "cohort": {"type": "string"},
                "program_name": {"type": "string"},
                "major_name": {"type": "string"},
                "specialization_name": {"type": "string"},
                "semesters": {"type": "array", "items": {"$ref": "#/definitions/Semester"}},
                "target_gpa": {"type": "number", "minimum": 0, "maximum": 4},
                "total_credits_required": {"type": "integer"},
                "has_onboarded": {"type": "boolean"}
            }
        },
        "GradeSubjectRequest": {
            "type": "object",
            "properties": {
                "scores": {"$ref": "#/definitions/ScoreInput"},
                "credits": {"type": "integer"},
                "excluded_from_gpa": {"type": "boolean"}
            }
        },
        "SummaryRequest": {
            "type": "object",
            "properties": {
                "snapshot": {"$ref": "#/definitions/Snapshot"},
                "include_ranking": {"type": "boolean"}
            }
        },
        "ForecastRequest": {
            "type": "object",
            "properties": {
                "current_gpa4": {"type": "number"},
                "passed_credits": {"type": "integer"},
                "total_credits_required": {"type": "integer"},
                "target_gpa": {"type": "number"}
            },
            "required": ["total_credits_required"]
        },
        "TranscriptImportRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "snapshot": {"$ref": "#/definitions/Snapshot"}
            },
            "required": ["text"]
        },
        "PeerRecord": {
            "type": "object",
            "properties": {
                "gpa4": {"type": "number"},
                "credits": {"type": "integer"},
                "drl": {"type": "integer"}
            }
        },
        "RankForecastRequest": {
            "type": "object",
            "properties": {
                "dataset": {"type": "string"},
                "user": {"$ref": "#/definitions/PeerRecord"},
                "semester": {"$ref": "#/definitions/Semester"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "snapshot": {"$ref": "#/definitions/Snapshot"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
