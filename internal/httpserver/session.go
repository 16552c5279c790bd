package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/YousefHatem4/food_storefront/internal/session"
)

const sessionCookie = "session_id"

// SessionMiddleware attaches the visitor's session to the request, creating
// one (and setting its cookie) on first contact.
func SessionMiddleware(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Session
			if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
				if s, ok := store.Get(ck.Value); ok {
					sess = s
				}
			}
			if sess == nil {
				sess = store.Create()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
				})
			}
			c.Set("session", sess)
			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) *session.Session {
	s, _ := c.Get("session").(*session.Session)
	return s
}
