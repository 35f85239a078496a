package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/matryer/is"

	"github.com/opsflow/temperature-compliance/pkg/types"
)

func TestRequireAccessStoresUserInContext(t *testing.T) {
	is, authenticator := testSetup(t)

	var user types.User
	var userErr error

	handler := authenticator.RequireAccess(ScopeReadingsWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, userErr = Identity{}.CurrentUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := testRequest(handler, token(is, "secret", "user-1", "tenant-a", "readings.read readings.write"))

	is.Equal(resp.Code, http.StatusOK)
	is.NoErr(userErr)
	is.Equal(user.ID, "user-1")
	is.Equal(user.TenantID, "tenant-a")
}

func TestRequireAccessWithoutTokenIsUnauthorized(t *testing.T) {
	is, authenticator := testSetup(t)

	resp := testRequest(authenticator.RequireAccess(ScopeReadingsRead)(okHandler()), "")

	is.Equal(resp.Code, http.StatusUnauthorized)
	is.Equal(strings.TrimSpace(resp.Body.String()), `{"error":"Unauthorized"}`)
}

func TestRequireAccessWithMissingScopeIsUnauthorized(t *testing.T) {
	is, authenticator := testSetup(t)

	handler := authenticator.RequireAccess(ScopeAuditRead)(okHandler())
	resp := testRequest(handler, token(is, "secret", "user-1", "tenant-a", "readings.read readings.write"))

	is.Equal(resp.Code, http.StatusUnauthorized)
}

func TestRequireAccessWithoutTenantIsUnauthorized(t *testing.T) {
	is, authenticator := testSetup(t)

	handler := authenticator.RequireAccess(ScopeReadingsRead)(okHandler())
	resp := testRequest(handler, token(is, "secret", "user-1", "", "readings.read"))

	is.Equal(resp.Code, http.StatusUnauthorized)
}

func TestVerifiedTokenWithWrongSignatureIsUnauthorized(t *testing.T) {
	is := is.New(t)

	authenticator, err := NewAuthenticator(context.Background(), policies(is), WithTokenVerification([]byte("secret")))
	is.NoErr(err)

	handler := authenticator.RequireAccess(ScopeReadingsRead)(okHandler())

	resp := testRequest(handler, token(is, "another secret", "user-1", "tenant-a", "readings.read"))
	is.Equal(resp.Code, http.StatusUnauthorized)

	resp = testRequest(handler, token(is, "secret", "user-1", "tenant-a", "readings.read"))
	is.Equal(resp.Code, http.StatusOK)
}

func TestServiceTokenWithoutSubjectActsForTenant(t *testing.T) {
	for name, opts := range map[string][]Option{
		"Unverified": nil,
		"Verified":   {WithTokenVerification([]byte("secret"))},
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			authenticator, err := NewAuthenticator(context.Background(), policies(is), opts...)
			is.NoErr(err)

			var user types.User
			handler := authenticator.RequireAccess(ScopeReadingsWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, _ = Identity{}.CurrentUser(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			resp := testRequest(handler, token(is, "secret", "", "tenant-a", "readings.write"))

			is.Equal(resp.Code, http.StatusOK)
			is.Equal(user.ID, "")
			is.Equal(user.TenantID, "tenant-a")
		})
	}
}

func TestCurrentUserWithoutAuthentication(t *testing.T) {
	is := is.New(t)

	_, err := Identity{}.CurrentUser(context.Background())
	is.Equal(err, ErrUnauthenticated)
}

func testSetup(t *testing.T) (*is.I, Enticator) {
	is := is.New(t)

	authenticator, err := NewAuthenticator(context.Background(), policies(is))
	is.NoErr(err)

	return is, authenticator
}

func policies(is *is.I) io.Reader {
	f, err := os.Open("../../../../../assets/config/authz.rego")
	is.NoErr(err)

	b, err := io.ReadAll(f)
	is.NoErr(err)
	f.Close()

	return strings.NewReader(string(b))
}

func token(is *is.I, secret, subject, tenant, scope string) string {
	ja := jwtauth.New("HS256", []byte(secret), nil)

	claims := map[string]any{
		"scope": scope,
	}
	if subject != "" {
		claims["sub"] = subject
	}
	if tenant != "" {
		claims["tenant"] = tenant
	}

	_, tokenString, err := ja.Encode(claims)
	is.NoErr(err)

	return tokenString
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testRequest(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v0/temperature", nil)
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	return resp
}
