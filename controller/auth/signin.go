package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/model"
	"tasktracker/services"
)

const (
	LogoutPath = "/logout/"
	IndexPath  = "/index/"

	invalidCredentials = "Invalid username or password"
)

func SignInController(router *gin.Engine, authService *services.AuthService, session *middleware.Session) {
	router.GET(middleware.LoginPath, func(c *gin.Context) {
		next := safeNext(c.Query("next"))
		if _, ok := session.Current(c); ok {
			c.Redirect(http.StatusFound, next)
			return
		}
		action := middleware.LoginPath
		if next != IndexPath {
			action += "?next=" + url.QueryEscape(next)
		}
		c.JSON(http.StatusOK, dto.FormResponse{
			Form:   "login",
			Action: action,
			Fields: []string{"username", "password"},
		})
	})
	router.POST(middleware.LoginPath, func(c *gin.Context) {
		Signin(c, authService, session)
	})
	router.GET(LogoutPath, session.RequireIdentity(), func(c *gin.Context) {
		Signout(c, session)
	})
}

func Signin(c *gin.Context, authService *services.AuthService, session *middleware.Session) {
	var request dto.SigninRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	identity, err := authService.Authenticate(c.Request.Context(), request.Username, request.Password)
	if errors.Is(err, model.ErrAuthentication) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := session.Issue(c, identity); err != nil {
		log.Printf("[AUTH] failed to issue session for %q: %v", identity.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	next := request.Next
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusSeeOther, safeNext(next))
}

// safeNext keeps post-login redirects on this site: only absolute paths are
// accepted, and anything else falls back to the index.
func safeNext(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return IndexPath
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return IndexPath
	}
	return raw
}

func Signout(c *gin.Context, session *middleware.Session) {
	session.Clear(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
		"login":   middleware.LoginPath,
	})
}
