package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/response"
)

var errInvalidID = errors.New("id must be an integer")

// writeError maps service errors to status codes
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FieldError(w, http.StatusUnprocessableEntity, err, verr.Fields)
	case errors.Is(err, domain.ErrEmptyCart):
		response.Error(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrQuantityLimit),
		errors.Is(err, domain.ErrInvalidProductTitle),
		errors.Is(err, domain.ErrInvalidProductCategory),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, domain.ErrInvalidProductRating),
		errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrPasswordRequired):
		response.Error(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNotAuthenticated):
		response.Error(w, http.StatusUnauthorized, err)
	default:
		response.Error(w, http.StatusInternalServerError, err)
	}
}

// decodeJSON reads a JSON body into v. An empty body is an error.
func decodeJSON(r *http.Request, logger *slog.Logger, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}
