package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AccessClaims are the claims accepted from externally issued access tokens.
type AccessClaims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var errBadSubject = errors.New("token subject is not a user id")

// Bearer resolves "Authorization: Bearer <jwt>" into the same session user shape the
// cookie session uses. Bad tokens leave the request anonymous. A cookie session that
// already resolved a user wins.
func Bearer(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if secret == "" || GetUser(c) != nil {
			return c.Next()
		}
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}
		claims, err := ParseAccessToken(strings.TrimSpace(header[len("Bearer "):]), key)
		if err != nil {
			log.Debug().Err(err).Msg("bearer token rejected")
			return c.Next()
		}
		c.Locals(userLocal, map[string]interface{}{
			"user_id": claims.Subject,
			"name":    claims.Name,
			"email":   claims.Email,
			"role":    claims.Role,
		})
		return c.Next()
	}
}

// ParseAccessToken verifies an HS256 token and its subject.
func ParseAccessToken(token string, key []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errBadSubject
	}
	return claims, nil
}
