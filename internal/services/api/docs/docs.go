// Package docs registers the OpenAPI document for the api with swag.
// Regenerate with: swag init --v3.1 -g cmd/custintel-api/main.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/predict/lead-quality": {
            "post": {
                "tags": ["Predict"],
                "summary": "Score the quality of one lead",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.LeadInput"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.LeadOutput"}}}},
                    "503": {"description": "lead model not trained"}
                }
            }
        },
        "/predict/lead-quality/batch": {
            "post": {
                "tags": ["Predict"],
                "summary": "Score many leads, results in input order",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.LeadBatchInput"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.LeadOutput"}}}}}
                }
            }
        },
        "/predict/churn": {
            "post": {
                "tags": ["Predict"],
                "summary": "Churn probability and risk level of one customer",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.ChurnInput"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.ChurnOutput"}}}},
                    "503": {"description": "churn model not trained"}
                }
            }
        },
        "/predict/churn/batch": {
            "post": {
                "tags": ["Predict"],
                "summary": "Score many customers, results in input order",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.ChurnBatchInput"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.ChurnOutput"}}}}}
                }
            }
        },
        "/models": {
            "get": {
                "tags": ["Models"],
                "summary": "Status of every served model",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/models/{kind}/reload": {
            "post": {
                "tags": ["Models"],
                "summary": "Reload a model bundle from disk and swap it in",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "kind", "in": "path", "required": true, "schema": {"type": "string", "enum": ["lead_quality", "churn"]}}],
                "responses": {
                    "200": {"description": "ok"},
                    "401": {"description": "missing or wrong admin token"},
                    "403": {"description": "reload disabled"},
                    "404": {"description": "unknown model type"},
                    "503": {"description": "bundle missing or invalid, previous model kept"}
                }
            }
        },
        "/runs": {
            "get": {
                "tags": ["Runs"],
                "summary": "Recent training runs, newest first",
                "parameters": [
                    {"name": "kind", "in": "query", "schema": {"type": "string"}},
                    {"name": "limit", "in": "query", "schema": {"type": "integer"}}
                ],
                "responses": {"200": {"description": "ok"}, "503": {"description": "run ledger disabled"}}
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check with per model load state", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}}
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "description": "CUSTINTEL_API_ADMIN_TOKEN; unset leaves reload open"}
        },
        "schemas": {
            "domain.LeadInput": {
                "type": "object",
                "required": ["name", "city"],
                "properties": {
                    "name": {"type": "string", "example": "Andrea Gómez"},
                    "city": {"type": "string", "example": "Bogotá"},
                    "channel": {"type": "string", "example": "WhatsApp Bot"},
                    "budget": {"type": "number", "minimum": 0, "example": 60000000},
                    "urgency": {"type": "integer", "minimum": 1, "maximum": 5, "example": 5},
                    "service_type": {"type": "string", "example": "SEO"}
                }
            },
            "domain.LeadOutput": {
                "type": "object",
                "properties": {
                    "name": {"type": "string"},
                    "channel": {"type": "string"},
                    "quality_label": {"type": "string", "enum": ["cold", "warm", "hot"]},
                    "quality_score": {"type": "number"},
                    "probabilities": {"type": "object", "additionalProperties": {"type": "number"}},
                    "budget_bracket": {"type": "string"},
                    "urgency_tier": {"type": "string"}
                }
            },
            "domain.LeadBatchInput": {
                "type": "object",
                "required": ["leads"],
                "properties": {"leads": {"type": "array", "minItems": 1, "items": {"$ref": "#/components/schemas/domain.LeadInput"}}}
            },
            "domain.ChurnInput": {
                "type": "object",
                "required": ["client_id", "engagement", "satisfaction", "days_since_last_purchase", "total_spend", "average_purchase", "transaction_count"],
                "properties": {
                    "client_id": {"type": "string", "example": "C-1042"},
                    "engagement": {"type": "string", "enum": ["low", "medium", "high"]},
                    "satisfaction": {"type": "string", "enum": ["low", "medium", "high"]},
                    "days_since_last_purchase": {"type": "number", "minimum": 0, "example": 120},
                    "total_spend": {"type": "number", "minimum": 0},
                    "average_purchase": {"type": "number", "minimum": 0},
                    "transaction_count": {"type": "integer", "minimum": 0},
                    "spend_std_dev": {"type": "number", "minimum": 0}
                }
            },
            "domain.ChurnOutput": {
                "type": "object",
                "properties": {
                    "client_id": {"type": "string"},
                    "churn_probability": {"type": "number"},
                    "risk_level": {"type": "string", "enum": ["low", "medium", "high"]}
                }
            },
            "domain.ChurnBatchInput": {
                "type": "object",
                "required": ["customers"],
                "properties": {"customers": {"type": "array", "minItems": 1, "items": {"$ref": "#/components/schemas/domain.ChurnInput"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "custintel API",
	Description:      "Lead quality and churn scoring",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
