package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/pkg/apperror"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin/contact-messages")
	{
		admin.GET("", handler.ListMessages)
		admin.POST("/mark-read", handler.BulkMarkRead)
		admin.GET("/:id", handler.GetMessage)
		admin.PUT("/:id", handler.UpdateMessage)
		admin.DELETE("/:id", handler.DeleteMessage)
	}
}

// ListMessages godoc
// @Summary      List contact messages
// @Description  Returns every stored contact message, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.ContactMessageList}
// @Failure      401  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /admin/contact-messages [get]
func (h *AdminHandler) ListMessages(c *gin.Context) {
	list, err := h.adminUC.ListMessages(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", list)
}

// GetMessage godoc
// @Summary      Get a contact message
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  response.Response{data=domain.ContactRecord}
// @Failure      404  {object}  response.Response
// @Router       /admin/contact-messages/{id} [get]
func (h *AdminHandler) GetMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	rec, err := h.adminUC.GetMessage(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "", rec)
}

// UpdateMessage godoc
// @Summary      Update read status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Message ID"
// @Param        body  body      domain.UpdateReadRequest  true  "Read flag"
// @Success      200   {object}  response.Response{data=domain.ContactRecord}
// @Failure      404   {object}  response.Response
// @Router       /admin/contact-messages/{id} [put]
func (h *AdminHandler) UpdateMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	var req domain.UpdateReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body."))
		return
	}
	rec, err := h.adminUC.SetRead(c.Request.Context(), id, req.IsRead)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message updated.", rec)
}

// DeleteMessage godoc
// @Summary      Delete a contact message
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/contact-messages/{id} [delete]
func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}
	if err := h.adminUC.DeleteMessage(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message deleted.", nil)
}

// BulkMarkRead godoc
// @Summary      Mark several messages read or unread
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.BulkReadRequest  true  "Message ids and read flag"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /admin/contact-messages/mark-read [post]
func (h *AdminHandler) BulkMarkRead(c *gin.Context) {
	var req domain.BulkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("ids must be a non-empty list."))
		return
	}
	updated, err := h.adminUC.BulkSetRead(c.Request.Context(), req.IDs, req.IsRead)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages updated.", gin.H{"updated": updated})
}

func messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperror.BadRequest("Invalid message id."))
		return 0, false
	}
	return id, true
}
