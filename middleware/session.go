package middleware

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"tasktracker/services"
)

const (
	identityKey = "identity"
	LoginPath   = "/login/"
)

// Session issues, reads and clears the session cookie and gates routes that
// need an authenticated identity.
type Session struct {
	Tokens     *services.TokenService
	Auth       *services.AuthService
	CookieName string
	Secure     bool
}

// Issue signs a token for identity and stores it in an HttpOnly cookie.
func (s *Session) Issue(c *gin.Context, identity services.Identity) error {
	token, err := s.Tokens.CreateSessionToken(identity)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Secure,
		Expires:  time.Now().Add(s.Tokens.TTL()),
	})
	return nil
}

func (s *Session) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Secure,
		MaxAge:   -1,
	})
}

// Current resolves the request's identity from the cookie. The user is
// re-loaded so tokens of deleted users stop working.
func (s *Session) Current(c *gin.Context) (services.Identity, bool) {
	cookie, err := c.Cookie(s.CookieName)
	if err != nil || cookie == "" {
		return services.Identity{}, false
	}
	claims, err := s.Tokens.ParseSessionToken(cookie)
	if err != nil {
		return services.Identity{}, false
	}
	identity, err := s.Auth.LoadIdentity(c.Request.Context(), claims.UserID)
	if err != nil {
		log.Printf("[AUTH] rejecting session for user %d: %v", claims.UserID, err)
		return services.Identity{}, false
	}
	return identity, true
}

// RequireIdentity redirects unauthenticated requests to the login page.
func (s *Session) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.Current(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// MustIdentity returns the identity stored by RequireIdentity.
func MustIdentity(c *gin.Context) services.Identity {
	return c.MustGet(identityKey).(services.Identity)
}
