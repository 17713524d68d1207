package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authUC "github.com/itww/admin-api/internal/application/usecase/auth"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/logger"
)

type AuthHandler struct {
	loginUseCase  *authUC.LoginUseCase
	tokenLifespan time.Duration
	secureCookie  bool
	logger        logger.Logger
}

func NewAuthHandler(loginUC *authUC.LoginUseCase, tokenLifespan time.Duration, secureCookie bool, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		tokenLifespan: tokenLifespan,
		secureCookie:  secureCookie,
		logger:        log,
	}
}

// SignIn returns the token in the body and also sets it as an httpOnly cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("Email and password are required", err))
		return
	}

	out, err := h.loginUseCase.SignIn(c.Request.Context(), authUC.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, out.Token, int(h.tokenLifespan.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, SignInResponse{
		Message: "Login successful",
		User:    ToUserDTO(out.User),
		Token:   out.Token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.loginUseCase.Me(c.Request.Context(), principal(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": ToUserDTO(u)})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
