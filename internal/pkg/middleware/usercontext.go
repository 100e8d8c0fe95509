package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/estadia-app/estadia/internal/pkg/session"
	"github.com/estadia-app/estadia/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the caller's session into a UserContext local
// for every request. Anonymous callers get a default context so handlers never
// have to care whether a session exists.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	store := session.GetSessionStore()
	if store == nil {
		c.Locals("USER_CONTEXT", anonymous)
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	sess, err := store.Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", anonymous)
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		c.Locals("USER_CONTEXT", anonymous)
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}
