package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"

	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/logging"
	"github.com/opsflow/temperature-compliance/internal/pkg/infrastructure/tracing"
	"github.com/opsflow/temperature-compliance/pkg/types"
)

type userContextKey struct{ name string }

var userCtxKey = &userContextKey{"user"}

var tracer = otel.Tracer("temperature-compliance/authz")

var ErrUnauthenticated = errors.New("no authenticated user in context")

type Scope string

const (
	ScopeReadingsRead  Scope = "readings.read"
	ScopeReadingsWrite Scope = "readings.write"
	ScopeAuditRead     Scope = "audit.read"
)

type Enticator interface {
	RequireAccess(scopes ...Scope) func(http.Handler) http.Handler
}

type Option func(*impl)

// WithTokenVerification makes the authenticator verify the HS256 signature of
// every bearer token before the policy is evaluated. The verified claims are
// passed to the policy as input.claims.
func WithTokenVerification(secret []byte) Option {
	return func(a *impl) {
		if len(secret) > 0 {
			a.verifier = jwtauth.New("HS256", secret, nil)
		}
	}
}

type impl struct {
	query    rego.PreparedEvalQuery
	verifier *jwtauth.JWTAuth
}

func (a *impl) RequireAccess(scopes ...Scope) func(http.Handler) http.Handler {

	validateScopes := make([]string, 0, len(scopes))
	for _, s := range scopes {
		validateScopes = append(validateScopes, string(s))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error

			logger := logging.GetLoggerFromContext(r.Context())

			ctx, span := tracer.Start(r.Context(), "check-auth")
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			token := r.Header.Get("Authorization")

			if token == "" || !strings.HasPrefix(token, "Bearer ") {
				err = errors.New("authorization header missing")
				logger.Info().Msg(err.Error())
				unauthorized(w)
				return
			}

			input := map[string]any{
				"token":  token[7:],
				"scopes": validateScopes,
				"method": r.Method,
				"path":   r.URL.Path,
			}

			if a.verifier != nil {
				claims, verr := a.verify(ctx, token[7:])
				if verr != nil {
					err = verr
					logger.Info().Err(err).Msg("token verification failed")
					unauthorized(w)
					return
				}
				input["claims"] = claims
			}

			results, err := a.query.Eval(ctx, rego.EvalInput(input))
			if err != nil {
				logger.Error().Err(err).Msg("opa eval failed")
				internalError(w)
				return
			}

			if len(results) == 0 {
				err = errors.New("opa query could not be satisfied")
				logger.Error().Err(err).Msg("auth failed")
				internalError(w)
				return
			}

			binding := results[0].Bindings["x"]

			// If authz fails we will get back a single bool. Check for that first.
			allowed, ok := binding.(bool)
			if ok && !allowed {
				err = errors.New("authorization failed")
				logger.Warn().Msg(err.Error())
				unauthorized(w)
				return
			}

			// If authz succeeds we should expect a result object here
			result, ok := binding.(map[string]any)
			if !ok {
				err = errors.New("unexpected result type")
				logger.Error().Err(err).Msg("opa error")
				internalError(w)
				return
			}

			user, err := userFromResult(result)
			if err != nil {
				logger.Error().Err(err).Msg("bad response from authz policy engine")
				unauthorized(w)
				return
			}

			r = r.WithContext(WithUser(r.Context(), user))

			// Token is authenticated, pass it through
			next.ServeHTTP(w, r)
		})
	}
}

func (a *impl) verify(ctx context.Context, token string) (map[string]any, error) {
	t, err := jwtauth.VerifyToken(a.verifier, token)
	if err != nil {
		return nil, err
	}

	return t.AsMap(ctx)
}

func userFromResult(result map[string]any) (types.User, error) {
	tenant, ok := result["tenant"].(string)
	if !ok || tenant == "" {
		return types.User{}, errors.New("policy result has no tenant")
	}

	// a token without a subject acts on behalf of the tenant itself
	user := types.User{TenantID: tenant}
	if userInfo, ok := result["user"].(map[string]any); ok {
		user.ID, _ = userInfo["id"].(string)
	}

	return user, nil
}

func NewAuthenticator(ctx context.Context, policies io.Reader, opts ...Option) (Enticator, error) {
	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	query, err := rego.New(
		rego.Query("x = data.example.authz.allow"),
		rego.Module("example.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	a := &impl{query: query}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func WithUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// Identity reads the user that RequireAccess stored in the request context
type Identity struct{}

func (Identity) CurrentUser(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(userCtxKey).(types.User)
	if !ok {
		return types.User{}, ErrUnauthenticated
	}
	return user, nil
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeError(w http.ResponseWriter, code int, message string) {
	b, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}
