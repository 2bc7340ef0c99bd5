// Package docs Pulse News API
//
// Pulse News polls an RSS news feed, normalizes and deduplicates its items
// into a local store, and serves the items published today (or yesterday as
// a fallback) in the Asia/Kolkata timezone.
//
//	Schemes: http, https
//	Host: localhost:8080
//	BasePath: /api
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs

import "github.com/swaggo/swag"

// @title Pulse News API
// @version 1.0
// @description RSS news polling service with link/title deduplication and day-bucketed reads

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func init() {
	swag.Register(swag.Name, &swag.Spec{
		InfoInstanceName: "swagger",
		SwaggerTemplate:  docTemplate,
	})
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Pulse News API",
        "description": "RSS news polling service with link/title deduplication and day-bucketed reads",
        "version": "1.0.0",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        }
    },
    "host": "localhost:8080",
    "basePath": "/api",
    "schemes": ["http", "https"],
    "paths": {
        "/storenews": {
            "get": {
                "tags": ["Ingest"],
                "summary": "Fetch the feed and store new items",
                "description": "Downloads the configured RSS feed, normalizes links and titles, skips items already stored and inserts the rest in one batch.",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Ingest result",
                        "schema": {"$ref": "#/definitions/IngestResult"}
                    },
                    "502": {
                        "description": "Upstream feed could not be fetched",
                        "schema": {"$ref": "#/definitions/Error"}
                    },
                    "500": {
                        "description": "Database write failed",
                        "schema": {"$ref": "#/definitions/Error"}
                    }
                }
            }
        },
        "/fetchnews": {
            "get": {
                "tags": ["Read"],
                "summary": "List today's news items",
                "description": "Returns items published today in the target timezone, falling back to yesterday when today has none. Offset applies before limit.",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "minimum": 0,
                        "description": "Maximum number of items to return (0 = no limit)"
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "type": "integer",
                        "minimum": 0,
                        "description": "Number of items to skip before applying the limit"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Day bucket of news items",
                        "schema": {"$ref": "#/definitions/NewsResponse"}
                    },
                    "400": {
                        "description": "Malformed limit or offset",
                        "schema": {"$ref": "#/definitions/Error"}
                    },
                    "500": {
                        "description": "Database read failed",
                        "schema": {"$ref": "#/definitions/Error"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Service health",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Health status with stored item count and poller state"
                    }
                }
            }
        }
    },
    "definitions": {
        "NewsItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "description": "Row id assigned on insert"},
                "title": {"type": "string"},
                "link": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string", "description": "Publication date exactly as the feed supplied it"}
            }
        },
        "IngestResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "fetchedCount": {"type": "integer"},
                "insertedCount": {"type": "integer"},
                "inserted": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/NewsItem"}
                },
                "skipped": {"$ref": "#/definitions/SkippedCounts"}
            }
        },
        "SkippedCounts": {
            "type": "object",
            "properties": {
                "duplicateLink": {"type": "integer"},
                "duplicateTitleDate": {"type": "integer"},
                "noLinkNoTitle": {"type": "integer"}
            }
        },
        "NewsResponse": {
            "type": "object",
            "properties": {
                "requested_day": {"type": "string", "enum": ["today", "yesterday"]},
                "day_date": {"type": "string", "description": "YYYY-MM-DD in the target timezone"},
                "count": {"type": "integer"},
                "news": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/NewsItem"}
                }
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "detail": {"type": "string"}
            }
        }
    },
    "tags": [
        {"name": "Health", "description": "Health check endpoints"},
        {"name": "Ingest", "description": "Feed ingest endpoints"},
        {"name": "Read", "description": "Day-bucketed read endpoints"}
    ]
}`
