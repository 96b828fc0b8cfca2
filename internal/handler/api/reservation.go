package api

import (
	"errors"
	"net/http"

	reqdto "librarium/internal/handler/dto/request"
	resdto "librarium/internal/handler/dto/response"
	"librarium/internal/handler/httperr"
	"librarium/internal/handler/middleware"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	bus     Dispatcher
	queries Queries
}

func NewReservationHandler(b Dispatcher, q Queries) *ReservationHandler {
	return &ReservationHandler{bus: b, queries: q}
}

// ReserveBook reserves the book for the authenticated member.
func (h *ReservationHandler) ReserveBook(c *gin.Context) {
	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("member id missing from context"), "Internal server error", nil)
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID format", nil)
		return
	}

	var req reqdto.ReserveBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.ReserveBook{
		ReservationID: uuid.New(),
		BookID:        bookID,
		MemberID:      memberID,
		DurationDays:  req.DurationDays,
	}

	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeReserveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": cmd.ReservationID})
}

// GetMemberReservations lists the authenticated member's reservations.
func (h *ReservationHandler) GetMemberReservations(c *gin.Context) {
	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("member id missing from context"), "Internal server error", nil)
		return
	}

	reservations, err := h.queries.ListMemberReservations(c.Request.Context(), memberID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservations(reservations))
}

func (h *ReservationHandler) writeReserveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
	case errors.Is(err, errs.ErrMemberNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
	case errors.Is(err, errs.ErrBookAlreadyReserved):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book is already reserved", nil)
	case errors.Is(err, errs.ErrStaleWrite):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book was reserved concurrently, retry with fresh data", nil)
	case errors.Is(err, errs.ErrRegularDurationExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Regular members can reserve for at most 7 days", nil)
	case errors.Is(err, errs.ErrPremiumDurationExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Premium members can reserve for at most 14 days", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
