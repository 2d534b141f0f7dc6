package handlers

import (
	"errors"
	"net/http"

	request "quoteflow/internal/adapter/http/dto/request"
	response "quoteflow/internal/adapter/http/dto/response"
	"quoteflow/internal/usecase"
	"quoteflow/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidSuggestionPayload = pkg.NewDomainErrorSimple("INVALID_SUGGESTION_INPUT", "Invalid suggestion payload", http.StatusBadRequest)
)

// SuggestionHandler drafts candidate line items from a job description.

type SuggestionHandler struct {
	usecase usecase.ISuggestionUseCase
}

func NewSuggestionHandler(uc usecase.ISuggestionUseCase) *SuggestionHandler {
	return &SuggestionHandler{usecase: uc}
}

// SuggestLineItems asks the completion model for 3-5 candidate items.
func (h *SuggestionHandler) SuggestLineItems(c *gin.Context) {
	var payload request.SuggestionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSuggestionPayload.HTTPStatus, errInvalidSuggestionPayload.ToHTTPError())
		return
	}

	items, err := h.usecase.SuggestLineItems(c.Request.Context(), payload.JobDescription)
	if err != nil {
		appErr := mapSuggestionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromSuggestedLineItems(items))
}

func mapSuggestionError(err error) *pkg.AppError {
	var suggestionErr *usecase.SuggestionError
	switch {
	case errors.Is(err, usecase.ErrEmptyJobDescription):
		return pkg.NewDomainErrorSimple("INVALID_SUGGESTION_INPUT", "Job description is required", http.StatusBadRequest)
	case errors.As(err, &suggestionErr):
		// The model answered but with unusable content; nothing the caller
		// can change, retrying later may help.
		return pkg.NewDomainErrorSimple("SUGGESTION_FAILED", "Could not generate suggestions. Please try again.", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrSuggestionNotAvailable):
		return pkg.NewDomainErrorSimple("SUGGESTION_UNAVAILABLE", "Suggestions are temporarily unavailable", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
