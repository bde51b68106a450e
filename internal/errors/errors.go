package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError é a interface central para todos os erros customizados do catálogo.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Message() string  // Texto exposto ao cliente HTTP
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// Sentinelas para uso com errors.Is.
var (
	ErrEmptyBody      = stderrors.New("empty object body")
	ErrConfig         = stderrors.New("missing required configuration")
	ErrWriteExhausted = stderrors.New("batch write retries exhausted")
)

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg    string
	Fields []string // Campos inválidos, quando a validação é de struct
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation error: %s: %s", e.Msg, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("validation error: %s", e.Msg)
}
func (e *ValidationError) Message() string  { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("not found: %s", e.Msg) }
func (e *NotFoundError) Message() string  { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., produto já existente).
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("conflict: %s", e.Msg) }
func (e *ConflictError) Message() string  { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return e.Err }

// NewConflictError cria um novo erro de conflito (escrita condicional recusada).
func NewConflictError(msg string, err error) AppError {
	return &ConflictError{Msg: msg, Err: err}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("unauthorized: %s", e.Msg) }
func (e *UnauthorizedError) Message() string  { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autorização.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Erros do Pipeline de Importação ---

// EmptyBodyError: o armazenamento respondeu com sucesso, mas sem conteúdo.
type EmptyBodyError struct {
	Bucket string
	Key    string
}

func (e *EmptyBodyError) Error() string {
	return fmt.Sprintf("no body in object response for %s/%s", e.Bucket, e.Key)
}
func (e *EmptyBodyError) Message() string  { return "Object has no content" }
func (e *EmptyBodyError) Category() string { return "EMPTY_BODY" }
func (e *EmptyBodyError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *EmptyBodyError) Unwrap() error    { return ErrEmptyBody }

// NewEmptyBodyError cria o erro para um objeto sem conteúdo.
func NewEmptyBodyError(bucket, key string) AppError {
	return &EmptyBodyError{Bucket: bucket, Key: key}
}

// ParseError representa um texto delimitado malformado.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("csv parse error: %v", e.Err)
}
func (e *ParseError) Message() string  { return "Malformed CSV content" }
func (e *ParseError) Category() string { return "PARSE_ERROR" }
func (e *ParseError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *ParseError) Unwrap() error    { return e.Err }

// NewParseError cria um erro de parse na linha informada (0 quando desconhecida).
func NewParseError(line int, err error) AppError {
	return &ParseError{Line: line, Err: err}
}

// ConfigError indica configuração obrigatória ausente.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfig.Error(), strings.Join(e.Missing, ", "))
}
func (e *ConfigError) Message() string  { return "Service is not configured" }
func (e *ConfigError) Category() string { return "CONFIG_ERROR" }
func (e *ConfigError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *ConfigError) Unwrap() error    { return ErrConfig }

// NewConfigError cria o erro listando as chaves ausentes.
func NewConfigError(missing ...string) AppError {
	return &ConfigError{Missing: missing}
}

// WriteExhaustedError: a escrita em lote não convergiu após os retries.
type WriteExhaustedError struct {
	Attempts  int
	Remaining int
}

func (e *WriteExhaustedError) Error() string {
	return fmt.Sprintf("failed to process all items after %d retries: %d entries unprocessed", e.Attempts-1, e.Remaining)
}
func (e *WriteExhaustedError) Message() string  { return "Catalog write did not complete" }
func (e *WriteExhaustedError) Category() string { return "WRITE_EXHAUSTED" }
func (e *WriteExhaustedError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *WriteExhaustedError) Unwrap() error    { return ErrWriteExhausted }

// NewWriteExhaustedError recebe o total de tentativas (primeira + retries).
func NewWriteExhaustedError(attempts, remaining int) AppError {
	return &WriteExhaustedError{Attempts: attempts, Remaining: remaining}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// UpstreamError representa uma falha em S3, SQS, SNS ou DynamoDB.
// O erro original do SDK fica acessível via Unwrap (throttling, conditional check, rede).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string    { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Message() string  { return "Upstream service call failed" }
func (e *UpstreamError) Category() string { return "UPSTREAM_ERROR" }
func (e *UpstreamError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *UpstreamError) Unwrap() error    { return e.Err }

// NewUpstreamError encapsula o erro de uma chamada externa.
func NewUpstreamError(op string, err error) AppError {
	return &UpstreamError{Op: op, Err: err}
}

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Msg)
}
func (e *InternalError) Message() string  { return "Internal server error" }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e mensagem.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Message()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Internal server error"
}
