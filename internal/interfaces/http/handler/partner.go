package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/halmarket/backend/internal/application/partner"
)

// PartnerHandler handles party account and ledger API endpoints
type PartnerHandler struct {
	BaseHandler
	accounts *partnerapp.AccountService
	ledger   *partnerapp.LedgerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(accounts *partnerapp.AccountService, ledger *partnerapp.LedgerService) *PartnerHandler {
	return &PartnerHandler{
		accounts: accounts,
		ledger:   ledger,
	}
}

// Create registers a new party account
// POST /api/v1/parties
func (h *PartnerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Get retrieves one party account
// GET /api/v1/parties/:id
func (h *PartnerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List retrieves party accounts with pagination
// GET /api/v1/parties
func (h *PartnerHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	page, err := h.accounts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateLimits adjusts a party's risk and crate holding limits
// PATCH /api/v1/parties/:id/limits
func (h *PartnerHandler) UpdateLimits(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}
	var req partnerapp.UpdateLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	account, err := h.accounts.UpdateLimits(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Entries retrieves a party's ledger entries
// GET /api/v1/parties/:id/entries
func (h *PartnerHandler) Entries(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "invalid list parameters")
		return
	}

	page, err := h.accounts.Entries(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Collect records a cash collection from a party
// POST /api/v1/parties/:id/collect
func (h *PartnerHandler) Collect(c *gin.Context) {
	h.post(c, h.ledger.Collect)
}

// Pay records a cash payment to a party
// POST /api/v1/parties/:id/pay
func (h *PartnerHandler) Pay(c *gin.Context) {
	h.post(c, h.ledger.Pay)
}

func (h *PartnerHandler) post(c *gin.Context, fn func(ctx context.Context, req partnerapp.PostingRequest) (*partnerapp.EntryResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}
	var req partnerapp.PostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	req.PartyID = id

	entry, err := fn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Reconcile replays a party's ledger against its denormalized balance
// GET /api/v1/parties/:id/reconciliation
func (h *PartnerHandler) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid party ID")
		return
	}

	report, err := h.ledger.Reconcile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
