package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/middleware"
	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

const cookieMaxAge = 86400 // matches token lifetime

type AuthController struct {
	auth services.AuthService
}

func NewAuthController(auth services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates a password account and starts a session.
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, token, svcErr := ac.auth.Register(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	ac.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"identity": services.BuildIdentity(user)})
}

// Login authenticates a password account.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, token, svcErr := ac.auth.Login(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	ac.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"identity": services.BuildIdentity(user)})
}

// Federated signs in with an external provider's ID token.
func (ac *AuthController) Federated(c *gin.Context) {
	var req models.FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, token, svcErr := ac.auth.Federated(c.Request.Context(), req.IDToken)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	ac.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"identity": services.BuildIdentity(user)})
}

// Guest opens an anonymous session.
func (ac *AuthController) Guest(c *gin.Context) {
	user, token, svcErr := ac.auth.Guest(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	ac.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"identity": services.BuildIdentity(user)})
}

// Logout clears the session cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the current identity's rendering slice.
func (ac *AuthController) Me(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	identity, svcErr := ac.auth.Identity(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, identity)
}

// UpdateProfile changes the display name.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	userID := c.GetString(middleware.UserIDKey)
	if svcErr := ac.auth.UpdateDisplayName(c.Request.Context(), userID, req.DisplayName); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (ac *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookie, token, cookieMaxAge, "/", "", false, true)
}
