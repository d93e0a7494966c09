package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"workero/internal/common"
	"workero/internal/models"
	"workero/internal/quotemath"
	"workero/internal/services"
)

// QuoteHandlers handles HTTP requests for quotes
type QuoteHandlers struct {
	quoteService services.QuoteServiceInterface
	pdfService   services.QuotePDFService
}

// NewQuoteHandlers creates a new quote handlers instance
func NewQuoteHandlers(quoteService services.QuoteServiceInterface, pdfService services.QuotePDFService) *QuoteHandlers {
	return &QuoteHandlers{
		quoteService: quoteService,
		pdfService:   pdfService,
	}
}

// quoteItemPayload is the wire shape of one line item.
type quoteItemPayload struct {
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

func toItemInputs(payload []quoteItemPayload) []quotemath.ItemInput {
	if payload == nil {
		return nil
	}
	items := make([]quotemath.ItemInput, 0, len(payload))
	for _, p := range payload {
		items = append(items, quotemath.ItemInput{
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			TaxRate:     p.TaxRate,
		})
	}
	return items
}

// ListQuotes handles GET /quotes
func (h *QuoteHandlers) ListQuotes(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.QuoteSearchFilter{
		Search:        c.QueryParam("search"),
		SortBy:        c.QueryParam("sortBy"),
		SortDirection: c.QueryParam("sortDirection"),
	}

	if statusStr := c.QueryParam("status"); statusStr != "" {
		status, err := models.ParseQuoteStatus(statusStr)
		if err != nil {
			return common.RespondError(c, common.NewValidationError("Validation error", map[string]string{"status": err.Error()}))
		}
		filter.Status = &status
	}
	if clientIDStr := c.QueryParam("client_id"); clientIDStr != "" {
		clientID, err := common.ValidateUUID(clientIDStr, "client_id")
		if err != nil {
			return common.RespondError(c, common.NewValidationError("Validation error", map[string]string{"client_id": err.Error()}))
		}
		filter.ClientID = &clientID
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	quotes, total, err := h.quoteService.List(ctx, companyID, filter)
	if err != nil {
		return common.RespondError(c, err)
	}

	page, limit := common.ValidatePaginationParams(filter.Page, filter.Limit)
	return common.Paginated(c, quotes, common.NewPageMeta(page, limit, total))
}

// CreateQuote handles POST /quotes
func (h *QuoteHandlers) CreateQuote(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		ClientID     string             `json:"client_id"`
		Items        []quoteItemPayload `json:"items"`
		ValidUntil   string             `json:"valid_until"`
		Notes        *string            `json:"notes"`
		ProfitMargin *decimal.Decimal   `json:"profit_margin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	fields := map[string]string{}
	clientID, err := common.ValidateUUID(req.ClientID, "client_id")
	if err != nil {
		fields["client_id"] = err.Error()
	}
	validUntil, err := common.ValidateDate(req.ValidUntil, "valid_until")
	if err != nil {
		fields["valid_until"] = err.Error()
	}
	if len(fields) > 0 {
		return common.RespondError(c, common.NewValidationError("Validation error", fields))
	}

	quote, err := h.quoteService.Create(ctx, companyID, &services.CreateQuoteRequest{
		ClientID:     clientID,
		Items:        toItemInputs(req.Items),
		ValidUntil:   validUntil,
		Notes:        req.Notes,
		ProfitMargin: req.ProfitMargin,
	})
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusCreated, quote, "Quote created successfully")
}

// GetQuote handles GET /quotes/:id
func (h *QuoteHandlers) GetQuote(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := h.quoteService.Get(ctx, companyID, quoteID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, quote, "")
}

// UpdateQuote handles PUT /quotes/:id
func (h *QuoteHandlers) UpdateQuote(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Items        []quoteItemPayload `json:"items"`
		ValidUntil   *string            `json:"valid_until"`
		Notes        *string            `json:"notes"`
		ProfitMargin *decimal.Decimal   `json:"profit_margin"`
		Status       *string            `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	update := &services.UpdateQuoteRequest{
		Items:        toItemInputs(req.Items),
		Notes:        req.Notes,
		ProfitMargin: req.ProfitMargin,
	}

	fields := map[string]string{}
	if req.ValidUntil != nil {
		validUntil, err := common.ValidateDate(*req.ValidUntil, "valid_until")
		if err != nil {
			fields["valid_until"] = err.Error()
		} else {
			update.ValidUntil = &validUntil
		}
	}
	if req.Status != nil {
		status, err := models.ParseQuoteStatus(*req.Status)
		if err != nil {
			fields["status"] = err.Error()
		} else {
			update.Status = &status
		}
	}
	if len(fields) > 0 {
		return common.RespondError(c, common.NewValidationError("Validation error", fields))
	}

	quote, err := h.quoteService.Update(ctx, companyID, quoteID, update)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, quote, "Quote updated successfully")
}

// DeleteQuote handles DELETE /quotes/:id
func (h *QuoteHandlers) DeleteQuote(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.quoteService.Delete(ctx, companyID, quoteID); err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, nil, "Quote deleted successfully")
}

func (h *QuoteHandlers) transition(c echo.Context, apply func(ctx echo.Context, companyID, quoteID uuid.UUID) (*models.Quote, error), message string) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := apply(c, companyID, quoteID)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusOK, quote, message)
}

// SendQuote handles POST /quotes/:id/send
func (h *QuoteHandlers) SendQuote(c echo.Context) error {
	return h.transition(c, func(c echo.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
		return h.quoteService.Send(c.Request().Context(), companyID, quoteID)
	}, "Quote sent successfully")
}

// AcceptQuote handles POST /quotes/:id/accept
func (h *QuoteHandlers) AcceptQuote(c echo.Context) error {
	return h.transition(c, func(c echo.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
		return h.quoteService.Accept(c.Request().Context(), companyID, quoteID)
	}, "Quote accepted successfully")
}

// RejectQuote handles POST /quotes/:id/reject
func (h *QuoteHandlers) RejectQuote(c echo.Context) error {
	return h.transition(c, func(c echo.Context, companyID, quoteID uuid.UUID) (*models.Quote, error) {
		return h.quoteService.Reject(c.Request().Context(), companyID, quoteID)
	}, "Quote rejected successfully")
}

// ConvertQuoteToJob handles POST /quotes/:id/convert-to-job
func (h *QuoteHandlers) ConvertQuoteToJob(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		ScheduledDate      string           `json:"scheduled_date"`
		AssignedTechnician *string          `json:"assigned_technician"`
		Priority           *string          `json:"priority"`
		EstimatedDuration  *decimal.Decimal `json:"estimated_duration"`
		Location           models.Address   `json:"location"`
		Notes              *string          `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	fields := map[string]string{}
	convert := &services.ConvertToJobRequest{
		EstimatedDuration: req.EstimatedDuration,
		Location:          req.Location,
		Notes:             req.Notes,
	}

	scheduledDate, err := common.ValidateDate(req.ScheduledDate, "scheduled_date")
	if err != nil {
		fields["scheduled_date"] = err.Error()
	} else {
		convert.ScheduledDate = scheduledDate
	}
	if req.AssignedTechnician != nil {
		technicianID, err := common.ValidateUUID(*req.AssignedTechnician, "assigned_technician")
		if err != nil {
			fields["assigned_technician"] = err.Error()
		} else {
			convert.AssignedTechnician = &technicianID
		}
	}
	if req.Priority != nil {
		priority, err := models.ParseJobPriority(*req.Priority)
		if err != nil {
			fields["priority"] = err.Error()
		} else {
			convert.Priority = &priority
		}
	}
	if len(fields) > 0 {
		return common.RespondError(c, common.NewValidationError("Validation error", fields))
	}

	job, err := h.quoteService.ConvertToJob(ctx, companyID, quoteID, convert)
	if err != nil {
		return common.RespondError(c, err)
	}
	return common.Success(c, http.StatusCreated, job, "Job created from quote successfully")
}

// DownloadQuotePDF handles GET /quotes/:id/pdf
func (h *QuoteHandlers) DownloadQuotePDF(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := h.quoteService.Get(ctx, companyID, quoteID)
	if err != nil {
		return common.RespondError(c, err)
	}

	data, url, err := h.pdfService.RenderAndStore(ctx, quote)
	if err != nil {
		return common.RespondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.pdfService.Filename(quote)+`"`)
	if url != "" {
		c.Response().Header().Set("X-Archive-Url", url)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// StreamQuotePDF handles GET /quotes/:id/pdf/stream
func (h *QuoteHandlers) StreamQuotePDF(c echo.Context) error {
	ctx := c.Request().Context()
	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	quoteID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := h.quoteService.Get(ctx, companyID, quoteID)
	if err != nil {
		return common.RespondError(c, err)
	}

	data, err := h.pdfService.Render(quote)
	if err != nil {
		return common.RespondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+h.pdfService.Filename(quote)+`"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}
