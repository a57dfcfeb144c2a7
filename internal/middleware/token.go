package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	jwtPkg "github.com/ohmatt160/library-AI-chatbot/pkg/jwt"
)

func (m *middleware) unauthorized(ctx *fiber.Ctx, reason string) error {
	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
		"error":      reason,
	}).Warn("[middleware] authentication failed")
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
	})
}

// NewTokenMiddleware verifies the bearer token and stores the caller as
// entity.UserLoginData under the "user" local.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return m.unauthorized(ctx, "authorization header is missing")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return m.unauthorized(ctx, "authorization header format is invalid")
	}

	userToken, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.AccessTokenSecret)
	if err != nil {
		return m.unauthorized(ctx, err.Error())
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return m.unauthorized(ctx, "invalid token claims")
	}

	user, err := jwtPkg.UserFromClaims(claims)
	if err != nil {
		return m.unauthorized(ctx, err.Error())
	}
	ctx.Locals("user", user)

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"user_id":    user.ID,
	}).Debug("[middleware] authentication successful")
	return ctx.Next()
}
