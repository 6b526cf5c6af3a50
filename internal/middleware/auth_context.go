package middleware

import (
	"context"
	"net/http"
	"strings"

	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/logger"
	"adopta-api/internal/platform/respond"
	"adopta-api/internal/ports/auth"

	"go.uber.org/zap"
)

type ctxKey string

const principalKey ctxKey = "principal"

const (
	HeaderDebugUserID   = "X-Debug-User-ID"
	HeaderDebugRole     = "X-Debug-Role"
	HeaderDebugProvince = "X-Debug-Province"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => Verify(); token inválido corta con 401.
// - Si verifier == nil => modo dev: headers X-Debug-* arman el principal.
// - Sin credenciales el request sigue como anónimo; cada operación decide.
func AuthContext(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar principal sin verifier
			if verifier == nil {
				p, ok, err := debugPrincipal(r)
				if err != nil {
					respond.Error(w, r, err)
					return
				}
				if ok {
					next.ServeHTTP(w, withPrincipal(r, p))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("token rejected", zap.Error(err))
				respond.Error(w, r, apperr.Wrap(apperr.KindAuthentication, "invalid credentials", err))
				return
			}

			next.ServeHTTP(w, withPrincipal(r, p))
		})
	}
}

// GetPrincipal devuelve el principal autenticado, si lo hay.
func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

// Principal es la forma cómoda para los servicios: nil = anónimo.
func Principal(ctx context.Context) *auth.Principal {
	p, ok := GetPrincipal(ctx)
	if !ok || strings.TrimSpace(p.UserID) == "" {
		return nil
	}
	return &p
}

func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	ctx := WithPrincipal(r.Context(), p)
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(
		zap.String("user_id", p.UserID),
		zap.String("role", string(p.Role)),
	))
	return r.WithContext(ctx)
}

func debugPrincipal(r *http.Request) (auth.Principal, bool, error) {
	uid := strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
	if uid == "" {
		return auth.Principal{}, false, nil
	}

	// Sin rol explícito asumimos adoptante.
	role := auth.RoleIndividual
	if raw := r.Header.Get(HeaderDebugRole); strings.TrimSpace(raw) != "" {
		parsed, ok := auth.ParseRole(raw)
		if !ok {
			return auth.Principal{}, false, apperr.Authentication("unknown debug role")
		}
		role = parsed
	}

	p := auth.Principal{UserID: uid, Role: role}
	if raw := r.Header.Get(HeaderDebugProvince); strings.TrimSpace(raw) != "" {
		prov, ok := auth.NormalizeProvince(raw)
		if !ok {
			return auth.Principal{}, false, apperr.Authentication("unknown debug province")
		}
		p.Province = prov
	}
	if role == auth.RoleCompany {
		p.Approved = true
	}
	return p, true, nil
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
