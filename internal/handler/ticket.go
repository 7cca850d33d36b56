package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/errs"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/kafka"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/model"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/searchindex"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	svc    *service.TicketService
	events kafka.TicketEventProducer
	search *searchindex.Client
	log    *zap.Logger
}

func NewTicketHandler(svc *service.TicketService, events kafka.TicketEventProducer, search *searchindex.Client, log *zap.Logger) *TicketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketHandler{svc: svc, events: events, search: search, log: log}
}

// respondError translates the two domain error kinds into status codes;
// anything else is a 500.
func (h *TicketHandler) respondError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
	default:
		h.log.Error("ticket handler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// emit fires a lifecycle event without blocking the response. The event must
// go out even if the request context is already cancelled, hence the fresh
// timeout context.
func (h *TicketHandler) emit(event string, t *model.Ticket) {
	if h.events == nil {
		return
	}
	payload := kafka.EventPayload(t)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.events.ProduceTicketEvent(ctx, event, payload)
	}()
}

// bindError turns a body-decode failure into a ValidationError, keeping the
// field name when the decoder reports one.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errs.Validation(typeErr.Field, fmt.Sprintf("must be of type %s", typeErr.Type))
	}
	return errs.Validation("body", "malformed json")
}

func parseID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errs.Validation("id", "must be a positive integer")
	}
	return id, nil
}

func parsePage(c *gin.Context) (service.Page, error) {
	var page service.Page
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errs.Validation("offset", "must be an integer")
		}
		page.Offset = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errs.Validation("limit", "must be an integer")
		}
		page.Limit = &n
	}
	return page, nil
}

func publicList(items []model.Ticket) []model.TicketPublic {
	out := make([]model.TicketPublic, len(items))
	for i := range items {
		out[i] = items[i].Public()
	}
	return out
}

func (h *TicketHandler) Create(c *gin.Context) {
	var in model.TicketCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.emit(kafka.EventTicketCreated, t)
	h.search.IndexTicketAsync(t)
	c.JSON(http.StatusCreated, t.Public())
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t.Public())
}

func (h *TicketHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicList(items))
}

func (h *TicketHandler) Search(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var filter service.SearchFilter
	if v, ok := c.GetQuery("title"); ok {
		filter.Title = &v
	}
	if v, ok := c.GetQuery("description"); ok {
		filter.Description = &v
	}
	if v, ok := c.GetQuery("priority"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.respondError(c, errs.Validation("priority", "must be an integer"))
			return
		}
		filter.Priority = &n
	}
	if v, ok := c.GetQuery("status"); ok {
		st := model.TicketStatus(v)
		filter.Status = &st
	}
	items, err := h.svc.Search(c.Request.Context(), filter, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicList(items))
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in model.TicketUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.emit(kafka.EventTicketUpdated, t)
	h.search.IndexTicketAsync(t)
	c.JSON(http.StatusOK, t.Public())
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	// Returns the snapshot of the ticket as it existed just before removal.
	t, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.emit(kafka.EventTicketDeleted, t)
	h.search.RemoveTicketAsync(t.ID)
	c.JSON(http.StatusOK, t.Public())
}
