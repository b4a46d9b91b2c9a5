package middleware

import (
	"context"
	"net/http"

	"github.com/chronopointe/pointage-go/internal/handler/http/response"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeIDKey struct{}

// AuthRequired accepts only verified, unrevoked badge tokens and puts
// the badge holder's employee id on the request context.
func AuthRequired(jwtSvc jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing token")
				return
			}

			if jwtSvc.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token has been revoked")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "badge" {
				response.Unauthorized(w, "Invalid token")
				return
			}
			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.Unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// EmployeeID returns the authenticated badge holder's employee id, or
// "" when the request was not authenticated.
func EmployeeID(ctx context.Context) string {
	id, _ := ctx.Value(employeeIDKey{}).(string)
	return id
}
