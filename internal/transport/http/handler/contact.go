package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/transport/http/middleware"
	"github.com/contactdeck/contactdeck/internal/usecase"
	"github.com/gin-gonic/gin"
)

type contactUsecaser interface {
	Create(ctx context.Context, input usecase.CreateContactInput) (*domain.Contact, error)
	List(ctx context.Context, ownerID string, input usecase.ListContactsInput) (*domain.ContactPage, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Contact, error)
	Update(ctx context.Context, input usecase.UpdateContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type ContactHandler struct {
	contactUsecase contactUsecaser
	logger         *slog.Logger
}

func NewContactHandler(contactUsecase contactUsecaser, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		logger:         logger.With("component", "contact_handler"),
	}
}

type contactRequest struct {
	Name  string  `json:"name"  binding:"required"`
	Phone string  `json:"phone" binding:"required,min=5"`
	Email string  `json:"email" binding:"required,email"`
	Notes *string `json:"notes"`
}

type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toContactResponse(c *domain.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedBy: c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type listMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type listResponse struct {
	Items []contactResponse `json:"items"`
	Meta  listMeta          `json:"meta"`
}

// POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contactUsecase.Create(c.Request.Context(), usecase.CreateContactInput{
		OwnerID: c.GetString(middleware.CtxUserID),
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateContact) {
			respondError(c, http.StatusConflict, errDuplicateContact)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create contact", "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	respondSuccess(c, http.StatusCreated, "Contact created", toContactResponse(contact))
}

// GET /api/contacts?page&limit&search&sortBy&order
func (h *ContactHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.contactUsecase.List(c.Request.Context(), c.GetString(middleware.CtxUserID), usecase.ListContactsInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list contacts", "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	items := make([]contactResponse, 0, len(result.Items))
	for _, contact := range result.Items {
		items = append(items, toContactResponse(contact))
	}

	respondSuccess(c, http.StatusOK, "Contacts retrieved", listResponse{
		Items: items,
		Meta: listMeta{
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.Pages,
		},
	})
}

// GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactUsecase.Get(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		h.respondContactError(c, err, "get contact")
		return
	}

	respondSuccess(c, http.StatusOK, "", toContactResponse(contact))
}

// PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contactUsecase.Update(c.Request.Context(), usecase.UpdateContactInput{
		OwnerID: c.GetString(middleware.CtxUserID),
		ID:      c.Param("id"),
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateContact) {
			respondError(c, http.StatusConflict, errDuplicateOtherContact)
			return
		}
		h.respondContactError(c, err, "update contact")
		return
	}

	respondSuccess(c, http.StatusOK, "Contact updated", toContactResponse(contact))
}

// DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	err := h.contactUsecase.Delete(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		h.respondContactError(c, err, "delete contact")
		return
	}

	respondSuccess(c, http.StatusOK, "Contact deleted", nil)
}

// respondContactError maps the shared not-found/forbidden/conflict outcomes;
// anything else logs and becomes a 500.
func (h *ContactHandler) respondContactError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrContactNotFound):
		respondError(c, http.StatusNotFound, errContactNotFound)
	case errors.Is(err, domain.ErrContactForbidden):
		respondError(c, http.StatusForbidden, errForbidden)
	case errors.Is(err, domain.ErrDuplicateContact):
		respondError(c, http.StatusConflict, errDuplicateContact)
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "contact_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, errInternalServer)
	}
}
