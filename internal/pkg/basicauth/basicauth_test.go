package basicauth_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocatalog/internal/pkg/basicauth"
)

func basic(s string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s))
}

func TestParse_AcceptsBothSeparators(t *testing.T) {
	login, password, err := basicauth.Parse(basic("admin=TEST_PASSWORD"))
	require.NoError(t, err)
	assert.Equal(t, "admin", login)
	assert.Equal(t, "TEST_PASSWORD", password)

	login, password, err = basicauth.Parse(basic("admin:p=ss"))
	require.NoError(t, err)
	assert.Equal(t, "admin", login)
	assert.Equal(t, "p=ss", password)
}

func TestCheck(t *testing.T) {
	creds := basicauth.Credentials{Login: "admin", Password: "TEST_PASSWORD"}

	assert.Equal(t, basicauth.Allowed, creds.Check(basic("admin=TEST_PASSWORD")))
	assert.Equal(t, basicauth.Denied, creds.Check(basic("admin=wrong")))
	assert.Equal(t, basicauth.Denied, creds.Check(basic("other=TEST_PASSWORD")))
	assert.Equal(t, basicauth.Missing, creds.Check(""))
	assert.Equal(t, basicauth.Missing, creds.Check("Bearer abc"))
	assert.Equal(t, basicauth.Missing, creds.Check("Basic !!!"))
}

func TestCheck_UnconfiguredLoginDeniesEverything(t *testing.T) {
	creds := basicauth.Credentials{}

	assert.Equal(t, basicauth.Denied, creds.Check(basic("=")))
}
