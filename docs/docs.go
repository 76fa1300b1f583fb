// Package docs registra la especificación OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/api/main.go -o docs
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
        "/pets/lost": {
            "get": {
                "description": "Lista reportes ordenados por fecha de creación descendente. Por defecto solo casos abiertos (lost).",
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Listar mascotas perdidas",
                "parameters": [
                    {"type": "integer", "description": "Máximo de reportes (0-200). Por defecto 10", "name": "limit", "in": "query"},
                    {"type": "string", "description": "lost (default) o found", "name": "status", "in": "query"},
                    {"type": "string", "description": "Tipo de animal", "name": "type", "in": "query"},
                    {"type": "string", "description": "Texto contenido en la ubicación", "name": "location", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lostpets.Response"}}},
                    "400": {"description": "parámetros inválidos", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "description": "Crea un reporte de mascota perdida con status lost.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Reportar mascota perdida",
                "parameters": [
                    {"description": "Datos del reporte", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/lostpets.createLostPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/createdResponse"}},
                    "400": {"description": "campo obligatorio faltante", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/pets/lost/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Obtener reporte de mascota perdida",
                "parameters": [{"type": "string", "description": "ID del reporte", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lostpets.Response"}},
                    "404": {"description": "lost pet not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Actualizar reporte",
                "parameters": [{"type": "string", "description": "ID del reporte", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lostpets.Response"}},
                    "400": {"description": "invalid input", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "lost pet not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "description": "Elimina el reporte y sus coincidencias registradas.",
                "tags": ["lost-pets"],
                "summary": "Eliminar reporte",
                "parameters": [{"type": "string", "description": "ID del reporte", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "lost pet not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/pets/lost/{petID}/found": {
            "post": {
                "description": "Marca el caso como resuelto. Repetirlo no es error.",
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Marcar como encontrada",
                "parameters": [{"type": "string", "description": "ID del reporte", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lostpets.Response"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "lost pet not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/pets/lost/{petID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Coincidencias de una mascota perdida",
                "parameters": [{"type": "string", "description": "ID del reporte de mascota perdida", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matches.matchResponse"}}},
                    "404": {"description": "lost pet not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/me/pets/lost": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lost-pets"],
                "summary": "Mis reportes de mascotas perdidas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lostpets.Response"}}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/sightings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sightings"],
                "summary": "Listar avistamientos",
                "parameters": [{"type": "integer", "description": "Máximo de avistamientos (0-200). Por defecto 10", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/sightings.sightingResponse"}}},
                    "400": {"description": "limit inválido", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "description": "Crea un avistamiento. Si trae imageData corre el análisis de imagen contra los casos abiertos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sightings"],
                "summary": "Reportar avistamiento",
                "parameters": [
                    {"description": "Datos del avistamiento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/sightings.createSightingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/sightings.createdResponse"}},
                    "400": {"description": "invalid input", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/sightings/image-match": {
            "post": {
                "description": "Compara la imagen contra los casos abiertos con foto y devuelve hasta 5 coincidencias (confianza >= 0.6) de mayor a menor. Si se envía ` + "`sightingId`" + ` las coincidencias se guardan contra ese avistamiento; si no, contra el avistamiento creado en los últimos 5 minutos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sightings"],
                "summary": "Comparar imagen con mascotas perdidas",
                "parameters": [
                    {"description": "image: data URL o URL de la foto", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/sightings.imageMatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matching.ResultResponse"}}},
                    "400": {"description": "image is required", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "sighting not found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/sightings/{sightingID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sightings"],
                "summary": "Obtener avistamiento",
                "parameters": [{"type": "string", "description": "ID del avistamiento", "name": "sightingID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sightings.sightingResponse"}},
                    "404": {"description": "sighting not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "tags": ["sightings"],
                "summary": "Eliminar avistamiento",
                "parameters": [{"type": "string", "description": "ID del avistamiento", "name": "sightingID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "sighting not found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/sightings/{sightingID}/matches": {
            "get": {
                "description": "Coincidencias registradas para el avistamiento, de mayor a menor confianza.",
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Coincidencias de un avistamiento",
                "parameters": [{"type": "string", "description": "ID del avistamiento", "name": "sightingID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/matches.matchResponse"}}},
                    "404": {"description": "sighting not found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/me/sightings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sightings"],
                "summary": "Mis avistamientos",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario para depuración", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "description": "Bearer token en producción", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/sightings.sightingResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Totales del tablero",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.Snapshot"}},
                    "500": {"description": "internal error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "createdResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "message": {"type": "string"}}
        },
        "contactInfo": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "preferredContact": {"type": "string", "enum": ["phone", "email"]}
            }
        },
        "coordinates": {
            "type": "object",
            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
        },
        "lostpets.createLostPetRequest": {
            "type": "object",
            "properties": {
                "petName": {"type": "string"},
                "petType": {"type": "string"},
                "petBreed": {"type": "string"},
                "petColor": {"type": "string"},
                "petSize": {"type": "string"},
                "petAge": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/coordinates"},
                "imageUrl": {"type": "string"},
                "contactInfo": {"$ref": "#/definitions/contactInfo"},
                "ownerName": {"type": "string"},
                "ownerEmail": {"type": "string"},
                "ownerPhone": {"type": "string"}
            }
        },
        "lostpets.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "petName": {"type": "string"},
                "petType": {"type": "string"},
                "petBreed": {"type": "string"},
                "petColor": {"type": "string"},
                "petSize": {"type": "string"},
                "petAge": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/coordinates"},
                "imageUrl": {"type": "string"},
                "ownerName": {"type": "string"},
                "contactInfo": {"$ref": "#/definitions/contactInfo"},
                "status": {"type": "string", "enum": ["lost", "found"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "matches.matchResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lostPetId": {"type": "string"},
                "sightingId": {"type": "string"},
                "confidence": {"type": "number"},
                "status": {"type": "string", "enum": ["pending", "confirmed", "rejected"]},
                "notes": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "matching.ResultResponse": {
            "type": "object",
            "properties": {
                "lostPet": {"$ref": "#/definitions/lostpets.Response"},
                "confidence": {"type": "number"},
                "reason": {"type": "string"}
            }
        },
        "sightings.createSightingRequest": {
            "type": "object",
            "properties": {
                "lostPetId": {"type": "string"},
                "animalType": {"type": "string"},
                "animalSize": {"type": "string"},
                "animalColor": {"type": "string"},
                "description": {"type": "string"},
                "sightingType": {"type": "string", "enum": ["solo-animal", "resembles-lost", "with-owner", "in-danger"]},
                "location": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/coordinates"},
                "imageUrl": {"type": "string"},
                "imageData": {"type": "string"},
                "contactInfo": {"$ref": "#/definitions/contactInfo"},
                "reporterName": {"type": "string"},
                "reporterEmail": {"type": "string"},
                "reporterPhone": {"type": "string"},
                "sightedAt": {"type": "string"},
                "sightingDate": {"type": "string"},
                "sightingTime": {"type": "string"}
            }
        },
        "sightings.createdResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message": {"type": "string"},
                "matches": {"type": "array", "items": {"$ref": "#/definitions/matching.ResultResponse"}}
            }
        },
        "sightings.imageMatchRequest": {
            "type": "object",
            "properties": {"image": {"type": "string"}, "sightingId": {"type": "string"}}
        },
        "sightings.sightingResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "lostPetId": {"type": "string"},
                "animalType": {"type": "string"},
                "animalSize": {"type": "string"},
                "animalColor": {"type": "string"},
                "description": {"type": "string"},
                "sightingType": {"type": "string"},
                "location": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/coordinates"},
                "imageUrl": {"type": "string"},
                "reporterName": {"type": "string"},
                "contactInfo": {"$ref": "#/definitions/contactInfo"},
                "sightedAt": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "stats.Snapshot": {
            "type": "object",
            "properties": {
                "totalLost": {"type": "integer"},
                "totalFound": {"type": "integer"},
                "totalSightings": {"type": "integer"},
                "activeCases": {"type": "integer"}
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
	Title:            "Regresa API",
	Description:      "Reportes de mascotas perdidas, avistamientos y coincidencias por imagen.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
