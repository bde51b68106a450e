// Package docs registra o documento Swagger servido em /swagger/.
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
        "/import": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["import"],
                "summary": "Emite URL assinada para upload do CSV",
                "parameters": [
                    {"type": "string", "description": "Nome do arquivo CSV", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SignedURLResponse"}},
                    "400": {"description": "File name is required", "schema": {"$ref": "#/definitions/domain.ImportErrorResponse"}},
                    "401": {"description": "Credenciais ausentes", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Could not generate signed URL", "schema": {"$ref": "#/definitions/domain.ImportErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BasicAuth": []}],
                "consumes": ["text/csv"],
                "produces": ["application/json"],
                "tags": ["import"],
                "summary": "Envia o CSV diretamente para a pasta de importação",
                "parameters": [
                    {"type": "string", "description": "Nome do arquivo CSV", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/importfile.UploadResponse"}},
                    "400": {"description": "File name is required", "schema": {"$ref": "#/definitions/domain.ImportErrorResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/domain.ImportErrorResponse"}},
                    "500": {"description": "Could not upload file", "schema": {"$ref": "#/definitions/domain.ImportErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Lista os produtos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ProductWithStock"}}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Cria um produto",
                "parameters": [
                    {"description": "Dados do produto", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ProductInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.ProductWithStock"}},
                    "400": {"description": "Missing request body ou Invalid product data", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Produto já existe", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/products/{productId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Busca um produto pelo ID",
                "parameters": [
                    {"type": "string", "description": "ID do produto", "name": "productId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ProductWithStock"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 404},
                "category": {"type": "string", "example": "NOT_FOUND"},
                "message": {"type": "string", "example": "Product not found"}
            }
        },
        "domain.ImportErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "File name is required"},
                "details": {"type": "string"}
            }
        },
        "domain.SignedURLResponse": {
            "type": "object",
            "properties": {
                "signedUrl": {"type": "string"}
            }
        },
        "domain.ProductInput": {
            "type": "object",
            "required": ["title", "price", "count"],
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number", "minimum": 0},
                "count": {"type": "integer", "minimum": 0}
            }
        },
        "domain.ProductWithStock": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "count": {"type": "integer"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "importfile.UploadResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "uploaded/products.csv"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"}
    }
}`

// SwaggerInfo contém as informações exportadas do documento.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GoCatalog API",
	Description:      "Catálogo de produtos e importação de CSV.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
