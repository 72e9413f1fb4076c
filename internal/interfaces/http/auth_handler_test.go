package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

func jsonRequest(method, path, body, authz string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	return req
}

func TestOperators_AltaYLogin(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)
	alta := `{"email":"Ana@Empresa.com","password":"secreto123","name":"Ana","role":"contador"}`

	// Caso 1: sólo admin puede dar de alta operadores.
	status, body := send(t, env.app, jsonRequest(http.MethodPost, "/api/operators", alta, tokenForRole(t, pkgjwt.RoleOperator)))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	// Caso 2: alta correcta; el email se guarda en minúsculas y no se expone el hash.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/operators", alta, tokenForRole(t, pkgjwt.RoleAdmin)))
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "ana@empresa.com", body["email"])
	assert.Equal(t, "contador", body["role"])
	assert.NotContains(t, body, "password_hash")

	// Caso 3: el mismo email no se registra dos veces.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/operators", alta, tokenForRole(t, pkgjwt.RoleAdmin)))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "OPERATOR_EXISTS", body["code"])

	// Caso 4: login público con el token del rol registrado.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@empresa.com","password":"secreto123"}`, ""))
	require.Equal(t, http.StatusOK, status, body)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	id, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.RoleAccountant, id.Role)
	assert.Equal(t, "MOLINO", id.Company)
	assert.EqualValues(t, 15*60, body["expires_in"])

	// Caso 5: el token obtenido sirve para las consultas de lectura.
	req := httptest.NewRequest(http.MethodGet, "/api/suppliers/search?name=acme", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	status, _ = send(t, env.app, req)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogin_Errores(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)
	status, _ := send(t, env.app, jsonRequest(http.MethodPost, "/api/operators",
		`{"email":"ope@empresa.com","password":"secreto123"}`, tokenForRole(t, pkgjwt.RoleAdmin)))
	require.Equal(t, http.StatusCreated, status)

	// Caso 1: contraseña incorrecta.
	status, body := send(t, env.app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ope@empresa.com","password":"otra-cosa"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	// Caso 2: email inexistente responde igual que contraseña incorrecta.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"nadie@empresa.com","password":"secreto123"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	// Caso 3: campos vacíos.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":""}`, ""))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	// Caso 4: alta con contraseña corta.
	status, body = send(t, env.app, jsonRequest(http.MethodPost, "/api/operators",
		`{"email":"corta@empresa.com","password":"123"}`, tokenForRole(t, pkgjwt.RoleAdmin)))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}
