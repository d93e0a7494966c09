package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"workero/internal/common"
	"workero/internal/services"
)

// MessageHandlers handles HTTP requests for messaging
type MessageHandlers struct {
	messageService services.MessageServiceInterface
}

// NewMessageHandlers creates a new message handlers instance
func NewMessageHandlers(messageService services.MessageServiceInterface) *MessageHandlers {
	return &MessageHandlers{messageService: messageService}
}

// ListMessages handles GET /messages
func (h *MessageHandlers) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = common.ValidatePaginationParams(page, limit)

	messages, total, err := h.messageService.List(ctx, companyID, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Paginated(c, messages, common.NewPageMeta(page, limit, total))
}

// ListThreads handles GET /messages/threads
func (h *MessageHandlers) ListThreads(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = common.ValidatePaginationParams(page, limit)

	threads, total, err := h.messageService.Threads(ctx, companyID, page, limit)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Paginated(c, threads, common.NewPageMeta(page, limit, total))
}

// ListTemplates handles GET /messages/templates
func (h *MessageHandlers) ListTemplates(c echo.Context) error {
	return common.Success(c, http.StatusOK, h.messageService.Templates(), "")
}

// SendMessage handles POST /messages/send
func (h *MessageHandlers) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return common.RespondError(c, h.messageService.Send(ctx, companyID))
}
