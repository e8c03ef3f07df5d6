package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/knowledge_hub/internal/dto"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/validation"

	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles registration, login and token renewal.
type authHandler struct {
	userService portssvc.UserSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade) *authHandler {
	return &authHandler{userService: us}
}

// registerAuthRoutes sets up the /user routes. Login is rate limited per
// client IP when loginLimiter is not nil.
func registerAuthRoutes(r *gin.Engine, userService portssvc.UserSvcFacade, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(userService)

	loginChain := []gin.HandlerFunc{h.login}
	if loginLimiter != nil {
		loginChain = append([]gin.HandlerFunc{middleware.RateLimit(loginLimiter)}, loginChain...)
	}

	user := r.Group("/user")
	{
		user.POST("/registration", h.register)
		user.POST("/login", loginChain...)
		user.POST("/renew_tokens", h.renewTokens)
	}
}

// register godoc
// @Summary Register new user
// @Description Creates a new user account. The email must not be registered yet.
// @Tags user
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "User Registration Info"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse "Validation error or email already exists"
// @Failure 500 {object} ErrorResponse
// @Router /user/registration [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind registration request", slog.String("error", err.Error()))
		respondError(c, validation.Describe(err), "Failed to register user")
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// login godoc
// @Summary User login
// @Description Authenticates with exactly one of username, email or mobile plus the password.
// @Tags user
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 400 {object} ErrorResponse "Invalid credentials or identifier"
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /user/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind login request", slog.String("error", err.Error()))
		respondError(c, validation.Describe(err), "Failed to log in")
		return
	}

	identifier, err := req.Identifier()
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	pair, err := h.userService.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenPairResponse(pair))
}

// renewTokens godoc
// @Summary Renew tokens
// @Description Exchanges a refresh token for a new access and refresh token. Each refresh token works once.
// @Tags user
// @Accept json
// @Produce json
// @Param refresh_token query string false "Refresh token"
// @Param body body dto.RenewTokensRequest false "Refresh token"
// @Success 200 {object} dto.TokenPairResponse
// @Failure 401 {object} ErrorResponse "Invalid, expired or already used refresh token"
// @Failure 500 {object} ErrorResponse
// @Router /user/renew_tokens [post]
func (h *authHandler) renewTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RenewTokensRequest
	// The query parameter wins; the JSON body is a fallback.
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind renew query", slog.String("error", err.Error()))
		respondError(c, validation.Describe(err), "Failed to renew tokens")
		return
	}
	if req.RefreshToken == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind renew request", slog.String("error", err.Error()))
			respondError(c, validation.Describe(err), "Failed to renew tokens")
			return
		}
	}
	if req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "refresh_token is required"})
		return
	}

	pair, err := h.userService.RenewSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "Failed to renew tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenPairResponse(pair))
}
