// Package docs registers the OpenAPI specification with the swag runtime so
// the /swagger route can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/valuations": {
            "post": {
                "tags": ["valuations"],
                "summary": "Perform a valuation",
                "description": "Appraise a property using the requested valuation method"
            }
        },
        "/valuations/batch": {
            "post": {
                "tags": ["valuations"],
                "summary": "Perform valuations in batch",
                "description": "Appraise up to 50 properties in one request"
            }
        },
        "/valuations/sensitivity": {
            "post": {
                "tags": ["valuations"],
                "summary": "Run a sensitivity analysis",
                "description": "Vary property fields around a baseline and report the change in total value"
            }
        },
        "/models": {
            "get": {
                "tags": ["models"],
                "summary": "List models"
            },
            "post": {
                "tags": ["models"],
                "summary": "Register a model",
                "security": [{"BearerAuth": []}]
            }
        },
        "/models/{id}": {
            "get": {
                "tags": ["models"],
                "summary": "Get a model"
            },
            "put": {
                "tags": ["models"],
                "summary": "Update a model",
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["models"],
                "summary": "Delete a model",
                "security": [{"BearerAuth": []}]
            }
        },
        "/models/{id}/activate": {
            "post": {
                "tags": ["models"],
                "summary": "Activate a model",
                "security": [{"BearerAuth": []}]
            }
        },
        "/models/{id}/calculate": {
            "post": {
                "tags": ["models"],
                "summary": "Calculate with a model"
            }
        },
        "/models/{id}/export": {
            "get": {
                "tags": ["models"],
                "summary": "Export a model"
            }
        },
        "/models/compare": {
            "post": {
                "tags": ["models"],
                "summary": "Compare models"
            }
        },
        "/models/import": {
            "post": {
                "tags": ["models"],
                "summary": "Import a model",
                "security": [{"BearerAuth": []}]
            }
        },
        "/history": {
            "get": {
                "tags": ["history"],
                "summary": "List valuation history"
            }
        },
        "/history/{id}": {
            "get": {
                "tags": ["history"],
                "summary": "Get a valuation record"
            }
        },
        "/history/compare": {
            "post": {
                "tags": ["history"],
                "summary": "Compare valuation records"
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and a service token."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Propval API",
	Description:      "Propval is a property valuation service that appraises real estate through market comparison, income capitalization, and cost replacement methods.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
