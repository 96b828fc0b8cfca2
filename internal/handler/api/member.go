package api

import (
	"errors"
	"net/http"

	reqdto "librarium/internal/handler/dto/request"
	resdto "librarium/internal/handler/dto/response"
	"librarium/internal/handler/httperr"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type MemberHandler struct {
	bus     Dispatcher
	queries Queries
}

func NewMemberHandler(b Dispatcher, q Queries) *MemberHandler {
	return &MemberHandler{bus: b, queries: q}
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req reqdto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.CreateMember{MemberID: uuid.New()}
	if err := copier.Copy(&cmd, &req); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": cmd.MemberID})
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID format", nil)
		return
	}

	m, err := h.queries.GetMember(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrMemberNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMember(m))
}

func (h *MemberHandler) AddBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID format", nil)
		return
	}

	var req reqdto.AddBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.AddToMemberBalance{MemberID: id, Amount: req.Amount}
	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) UpgradeMembership(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid member ID format", nil)
		return
	}

	cmd := commands.UpgradeMembership{MemberID: id}
	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrMemberNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Member not found", nil)
	case errors.Is(err, errs.ErrDuplicatePhone):
		httperr.AbortWithError(c, http.StatusConflict, err, "Phone number already registered", nil)
	case errors.Is(err, errs.ErrStaleWrite):
		httperr.AbortWithError(c, http.StatusConflict, err, "Member was modified concurrently, retry with fresh data", nil)
	case errors.Is(err, errs.ErrInvalidPhoneNumber):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid phone number", nil)
	case errors.Is(err, errs.ErrNegativeAmount):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Amount cannot be negative", nil)
	case errors.Is(err, errs.ErrAlreadyPremium):
		httperr.AbortWithError(c, http.StatusConflict, err, "Member is already premium", nil)
	case errors.Is(err, errs.ErrInsufficientBalance):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Insufficient balance for premium upgrade", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
