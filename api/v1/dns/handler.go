package dns

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go_gizmo/api/v1/middleware"
	"go_gizmo/internal/dns"
	"go_gizmo/internal/httpx"
	"go_gizmo/internal/model"
)

// Handler serves provider accounts, domains and records of the authenticated user
type Handler struct {
	service *dns.Service
}

// NewHandler creates a new DNS handler
func NewHandler(service *dns.Service) *Handler {
	return &Handler{service: service}
}

// AccountView is an account as shown to its owner; credentials are never returned
type AccountView struct {
	ID       int    `json:"id"`
	Login    string `json:"login"`
	Provider string `json:"provider"`
}

// PushResult is the outcome of a record push
type PushResult struct {
	RecordID  int                 `json:"record_id"`
	Operation model.SyncOperation `json:"operation"`
	Response  *dns.Response       `json:"response"`
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid id"))
		return 0, false
	}
	return id, true
}

// Providers lists the registered adapter names
// GET /api/v1/providers
func (h *Handler) Providers(c *gin.Context) {
	names := h.service.Registry().Names(c.Request.Context())
	httpx.OKItems(c, names, len(names))
}

// Accounts lists the user's provider accounts
// GET /api/v1/accounts
func (h *Handler) Accounts(c *gin.Context) {
	accounts, err := h.service.UserAccounts(c.Request.Context(), middleware.UID(c))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	items := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, AccountView{ID: a.ID, Login: a.Login, Provider: a.Provider.Name})
	}
	httpx.OKItems(c, items, len(items))
}

// AccountDomains lists the locally known domains of an account
// GET /api/v1/accounts/:id/domains
func (h *Handler) AccountDomains(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	account, err := h.service.Store().GetAccount(c.Request.Context(), id)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}
	if account.UserID != middleware.UID(c) {
		httpx.FailErr(c, httpx.ErrNotFound("account not found"))
		return
	}

	domains, err := h.service.AccountDomains(c.Request.Context(), id)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}
	httpx.OKItems(c, domains, len(domains))
}

// ownedDomain loads the :id domain, answering 404 for other users' domains
func (h *Handler) ownedDomain(c *gin.Context) (*model.Domain, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	domain, err := h.service.Store().GetDomain(c.Request.Context(), id)
	if err != nil {
		httpx.FailDNS(c, err)
		return nil, false
	}
	if domain.Account.UserID != middleware.UID(c) {
		httpx.FailErr(c, httpx.ErrNotFound("domain not found"))
		return nil, false
	}
	return domain, true
}

// DomainRecords lists the records currently served by the domain's provider
// GET /api/v1/domains/:id/records
func (h *Handler) DomainRecords(c *gin.Context) {
	domain, ok := h.ownedDomain(c)
	if !ok {
		return
	}

	records, err := h.service.ListDomainRecords(c.Request.Context(), domain)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}
	httpx.OKItems(c, records, len(records))
}

// PullDomain imports the provider's records into the local store
// POST /api/v1/domains/:id/pull
func (h *Handler) PullDomain(c *gin.Context) {
	domain, ok := h.ownedDomain(c)
	if !ok {
		return
	}

	result, err := h.service.PullRecords(c.Request.Context(), domain.ID)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}
	httpx.OK(c, result)
}

// CreateRecord pushes a stored record as a new provider record
// POST /api/v1/records/:id/create
func (h *Handler) CreateRecord(c *gin.Context) {
	h.push(c, model.SyncOperationCreate)
}

// UpdateRecord pushes a stored record over the provider record with the same type and name
// POST /api/v1/records/:id/update
func (h *Handler) UpdateRecord(c *gin.Context) {
	h.push(c, model.SyncOperationUpdate)
}

// DeleteRecord removes a stored record from the provider
// POST /api/v1/records/:id/delete
func (h *Handler) DeleteRecord(c *gin.Context) {
	h.push(c, model.SyncOperationDelete)
}

func (h *Handler) push(c *gin.Context, op model.SyncOperation) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	record, err := h.service.Store().GetRecord(c.Request.Context(), id)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}
	if record.Domain.Account.UserID != middleware.UID(c) {
		httpx.FailErr(c, httpx.ErrNotFound("record not found"))
		return
	}

	resp, err := h.service.Push(c.Request.Context(), id, op)
	if err != nil {
		httpx.FailDNS(c, err)
		return
	}

	httpx.Logger(c).WithFields(logrus.Fields{
		"record":    record.Label(),
		"operation": op,
	}).Debug("record pushed")
	httpx.OK(c, PushResult{RecordID: id, Operation: op, Response: resp})
}
