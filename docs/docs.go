// Package docs registers the travelbook OpenAPI document with swag.
// Regenerate with: swag init -g server/main.go
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
        "/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "List the caller's bookings, newest first",
                "parameters": [
                    {"type": "string", "description": "Status filter", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "End date and total price are derived from the package",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Create a booking",
                "parameters": [
                    {"description": "Booking", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bookings.CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/bookings.BookingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/bookings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Get a booking",
                "parameters": [{"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/bookings.BookingResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/bookings/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Move a booking along its status machine",
                "parameters": [
                    {"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bookings.UpdateStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookings.BookingResponse"}}}
            }
        },
        "/bookings/{id}/payment": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Set a booking's payment status",
                "parameters": [
                    {"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true},
                    {"description": "New payment status", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bookings.UpdatePaymentStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookings.BookingResponse"}}}
            }
        },
        "/bookings/{id}/cancel": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Cancel one of the caller's bookings",
                "parameters": [{"type": "string", "description": "Booking ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/bookings.BookingResponse"}}}
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the caller's profile",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        }
    },
    "definitions": {
        "bookings.ContactInfo": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "bookings.CreateBookingRequest": {
            "type": "object",
            "required": ["package", "paymentMethod", "startDate"],
            "properties": {
                "contactInfo": {"$ref": "#/definitions/bookings.ContactInfo"},
                "numberOfPeople": {"type": "integer"},
                "package": {"type": "string"},
                "paymentMethod": {"type": "string", "enum": ["credit_card", "debit_card", "paypal", "bank_transfer", "cash"]},
                "specialRequests": {"type": "string"},
                "startDate": {"type": "string", "example": "2025-06-01"}
            }
        },
        "bookings.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["pending", "confirmed", "cancelled", "completed"]}}
        },
        "bookings.UpdatePaymentStatusRequest": {
            "type": "object",
            "required": ["paymentStatus"],
            "properties": {"paymentStatus": {"type": "string", "enum": ["pending", "paid", "refunded"]}}
        },
        "bookings.BookingResponse": {
            "type": "object",
            "properties": {
                "bookingRef": {"type": "string"},
                "cancelledAt": {"type": "string"},
                "contactInfo": {"$ref": "#/definitions/bookings.ContactInfo"},
                "createdAt": {"type": "string"},
                "endDate": {"type": "string"},
                "id": {"type": "string"},
                "numberOfPeople": {"type": "integer"},
                "package": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "specialRequests": {"type": "string"},
                "startDate": {"type": "string"},
                "status": {"type": "string"},
                "totalPrice": {"type": "number"},
                "updatedAt": {"type": "string"},
                "user": {"type": "string"}
            }
        },
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "errors": {},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "status_code": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "travelbook API",
	Description:      "Travel package marketplace: catalog, bookings and trip history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
