package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API de produtos.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"404"`
	Category string `json:"category" example:"NOT_FOUND"`
	Message  string `json:"message" example:"Product not found"`
}

// ImportErrorResponse é o corpo de erro do endpoint de importação.
// @Description Corpo de erro do endpoint /import.
type ImportErrorResponse struct {
	Error   string `json:"error" example:"File name is required"`
	Details string `json:"details,omitempty" example:"operation error S3: PutObject"`
}

// SignedURLResponse é a resposta de sucesso do endpoint /import.
type SignedURLResponse struct {
	SignedURL string `json:"signedUrl" example:"https://bucket.s3.amazonaws.com/uploaded/products.csv?X-Amz-Signature=..."`
}
