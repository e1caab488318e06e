package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, guards ...gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	chain := append(append([]gin.HandlerFunc{}, guards...), handler.Login)
	public.POST("/admin/login", chain...)
}

// Login godoc
// @Summary      Admin login
// @Description  Exchange admin credentials for a bearer token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        credentials  body      domain.LoginRequest  true  "Admin credentials"
// @Success      200          {object}  response.Response{data=domain.LoginResponse}
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Failure      503          {object}  response.Response
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Username and password are required."))
		return
	}

	resp, err := h.authUC.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful.", resp)
}
