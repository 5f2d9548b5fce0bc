package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ActorIDContextKey = "actor_id"

// ActorFromToken extracts the subject from a Bearer token when one is
// present. Requests without a token pass through anonymously: the
// library trusts its network, and the actor is only recorded for audit
// attribution.
func ActorFromToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}

		sub, err := claims.GetSubject()
		if err != nil {
			return c.Next()
		}

		actorID, err := uuid.Parse(sub)
		if err != nil {
			return c.Next()
		}

		c.Locals(ActorIDContextKey, actorID)
		return c.Next()
	}
}

func GetActorID(c *fiber.Ctx) *uuid.UUID {
	actorID, ok := c.Locals(ActorIDContextKey).(uuid.UUID)
	if !ok {
		return nil
	}
	return &actorID
}
