package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, guards ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	chain := append(append([]gin.HandlerFunc{}, guards...), handler.SubmitContact)
	public.POST("/contact", chain...)
	public.POST("/contact/", chain...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Store a contact form submission and notify the site owner. This is a public endpoint.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      201      {object}  response.Response{data=domain.ContactRecord}
// @Failure      400      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Request body too large.", err))
			return
		}
		_ = c.Error(apperror.BadRequest("Invalid request body."))
		return
	}

	rec, err := h.contactUC.Submit(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Thank you for your message! I'll get back to you soon.", rec)
}
