package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const principalKey = "auth_principal"

// authCheck verifies the bearer token against the auth collaborator.
// Collaborator failure is fatal to the request.
func authCheck(verifier port.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	h := NewHandler(logger)
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			h.handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Split(header, " ")
		if len(words) != 2 {
			h.handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			h.handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}

		principal, err := verifier.Verify(ctx, words[1])
		if err != nil {
			if err == domain.ErrCollaboratorUnavailable {
				h.handleAbort(ctx, domain.ErrUnauthorized)
				return
			}
			h.handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(principalKey, principal)

		ctx.Next()
	}
}

func requirePermission(perm string, logger *zap.Logger) gin.HandlerFunc {
	h := NewHandler(logger)
	return func(ctx *gin.Context) {
		principal := getPrincipal(ctx)
		if !principal.HasPermission(perm) {
			h.handleAbort(ctx, domain.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func getPrincipal(ctx *gin.Context) *port.Principal {
	return ctx.MustGet(principalKey).(*port.Principal)
}
