package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's id.
const ContextKeyUserID = "userID"

var (
	errMissingToken = errors.New("missing or malformed authorization header")
	errInvalidToken = errors.New("invalid or expired token")
)

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		segments := strings.Split(header, " ")
		if len(segments) != 2 || segments[0] != "Bearer" {
			response.RenderErr(ctx, response.NewErr(http.StatusUnauthorized, errMissingToken))
			ctx.Abort()
			return
		}

		claims := &jwthelper.UserClaims{}
		token, err := jwt.ParseWithClaims(segments[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(a.signingKey), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			response.RenderErr(ctx, response.NewErr(http.StatusUnauthorized, errInvalidToken))
			ctx.Abort()
			return
		}

		// A token replayed from another client is rejected.
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.NewErr(http.StatusUnauthorized, errInvalidToken))
			ctx.Abort()
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
