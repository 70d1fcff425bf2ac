package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/controller/response"
	"tasktracker/dto"
	"tasktracker/middleware"
	"tasktracker/services"
)

const RegistrationPath = "/registration/"

func SignUpController(router *gin.Engine, authService *services.AuthService) {
	router.GET(RegistrationPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.FormResponse{
			Form:   "registration",
			Action: RegistrationPath,
			Fields: []string{"username", "password"},
		})
	})
	router.POST(RegistrationPath, func(c *gin.Context) {
		Signup(c, authService)
	})
}

func Signup(c *gin.Context, authService *services.AuthService) {
	var request dto.SignupRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := authService.Register(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully, please log in",
		"login":   middleware.LoginPath,
		"user":    dto.UserResponse{UserID: user.ID, Username: user.Username},
	})
}
