// Package basicauth valida credenciais Basic contra o par login/senha configurado.
package basicauth

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	apperror "gocatalog/internal/errors"
)

// Result é o desfecho da verificação de um cabeçalho Authorization.
type Result int

const (
	// Missing: cabeçalho ausente ou de outro esquema (401).
	Missing Result = iota
	// Denied: credenciais Basic que não conferem (403).
	Denied
	// Allowed: credenciais válidas.
	Allowed
)

// Credentials é o par esperado, vindo do ambiente.
type Credentials struct {
	Login    string
	Password string
}

// Parse decodifica "Basic base64(login=senha)". O separador ":" do RFC 7617 também é aceito.
func Parse(header string) (login, password string, err error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return "", "", apperror.NewUnauthorizedError("Unauthorized")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", "", apperror.NewUnauthorizedError("Unauthorized")
	}

	decoded := string(raw)
	if i := strings.IndexAny(decoded, "=:"); i >= 0 {
		return decoded[:i], decoded[i+1:], nil
	}
	return decoded, "", nil
}

// Check classifica o cabeçalho. A comparação é em tempo constante.
func (c Credentials) Check(header string) Result {
	login, password, err := Parse(header)
	if err != nil {
		return Missing
	}
	if c.Login == "" {
		return Denied
	}

	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(c.Login))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password))
	if loginOK&passwordOK == 1 {
		return Allowed
	}
	return Denied
}
