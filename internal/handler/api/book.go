package api

import (
	"errors"
	"net/http"

	"librarium/internal/domain/book"
	reqdto "librarium/internal/handler/dto/request"
	resdto "librarium/internal/handler/dto/response"
	"librarium/internal/handler/httperr"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookHandler struct {
	bus     Dispatcher
	queries Queries
}

func NewBookHandler(b Dispatcher, q Queries) *BookHandler {
	return &BookHandler{bus: b, queries: q}
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.CreateBook{BookID: uuid.New()}
	if err := copier.Copy(&cmd, &req); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": cmd.BookID})
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID format", nil)
		return
	}

	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.UpdateBook{BookID: id}
	if err := copier.Copy(&cmd, &req); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	if err := h.bus.Handle(c.Request.Context(), cmd); err != nil {
		h.writeCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book ID format", nil)
		return
	}

	b, err := h.queries.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBook(b))
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.queries.ListBooks(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBooks(books))
}

func (h *BookHandler) writeCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrBookNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found", nil)
	case errors.Is(err, errs.ErrStaleWrite):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book was modified concurrently, retry with fresh data", nil)
	case errors.Is(err, errs.ErrBookAlreadyReserved):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book is already reserved", nil)
	case errors.Is(err, errs.ErrDuplicateISBN):
		httperr.AbortWithError(c, http.StatusConflict, err, "A book with this ISBN already exists", nil)
	case errors.Is(err, book.ErrEmptyTitle),
		errors.Is(err, book.ErrEmptyISBN),
		errors.Is(err, book.ErrNegativePrice):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
