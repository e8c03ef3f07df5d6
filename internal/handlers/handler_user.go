package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/dto"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes that need an authenticated user.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)
	rg.GET("/me", h.getMe)
}

// getMe godoc
// @Summary Current user
// @Description Returns the user the access token was issued to.
// @Tags user
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /user/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	username, ok := middleware.GetSubjectFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
