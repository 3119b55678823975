package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/vikasdeshmukh63/school-application-dashboard/apps/api/echo"
	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
)

func Test_authApi_login(t *testing.T) {
	app, _, idp := setup(t)
	idp.AddAccount(core.IdentityAccount{
		ID:       "user_alice",
		Username: "alice",
		Role:     string(access.RoleTeacher),
	}, "Sup3r.Tr0ng#pwd")

	requiredErr := marchallObj(t, map[string]string{
		"username": "this field is required",
		"password": "this field is required",
	})

	tests := []httpTest{
		{name: "empty payload", method: http.MethodPost, path: "/v1/auth/login",
			body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: requiredErr},
		{name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Username: "alice", Password: "nope-nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"})},
		{name: "unknown username", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Username: "bob", Password: "Sup3r.Tr0ng#pwd"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, LoginRequest{Username: "alice", Password: "Sup3r.Tr0ng#pwd"})
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})
}

// A token issued by login must make it back through the route middleware
// with its role and subject claims intact.
func Test_authApi_tokenRoundTrip(t *testing.T) {
	app, _, idp := setup(t)
	idp.AddAccount(core.IdentityAccount{
		ID:       "user_adm",
		Username: "head",
		Role:     string(access.RoleAdmin),
	}, "Sup3r.Tr0ng#pwd")

	body := marchallObj(t, LoginRequest{Username: "head", Password: "Sup3r.Tr0ng#pwd"})
	req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	t.Run("issued token is accepted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/teachers", resp.Token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "data = %s", rec.Body.String())
	})

	t.Run("role claim survives the parse", func(t *testing.T) {
		// a teacher token on an admin-only route is a 403, never a 401
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects", roleToken(t, access.RoleTeacher, "user_t1"))
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	app, _, _ := setup(t)
	token := roleToken(t, access.RoleTeacher, "user_alice")

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})
}
