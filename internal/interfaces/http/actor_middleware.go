package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HeaderActor cabecera con el usuario que origina la operación.
const HeaderActor = "X-Actor"

// LocalActor key de c.Locals para el actor.
const LocalActor = "actor"

// ActorMiddleware copia la cabecera X-Actor a c.Locals. Sin cabecera el actor queda vacío.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalActor, strings.TrimSpace(c.Get(HeaderActor)))
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después de ActorMiddleware).
func GetActor(c *fiber.Ctx) string {
	v := c.Locals(LocalActor)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
