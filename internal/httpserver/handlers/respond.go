package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/respond"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

var clientErrorCodes = map[domain.ClientErrorKind]string{
	domain.KindInvalidBody: respond.CodeInvalidBody,
	domain.KindMissingURL:  respond.CodeMissingURL,
	domain.KindInvalidID:   respond.CodeInvalidID,
}

// fail maps err onto the error taxonomy, logs it and writes the response.
func fail(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, id uuid.UUID, err error) {
	fields := []logger.Field{
		logger.String("op", op),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err),
	}
	if id != uuid.Nil {
		fields = append(fields, logger.String("id", id.String()))
	}

	var ce *domain.ClientError
	var se *domain.StoreError
	switch {
	case errors.As(err, &ce):
		log.Debug("rejected request", fields...)
		code, ok := clientErrorCodes[ce.Kind]
		if !ok {
			code = respond.CodeInvalidBody
		}
		respond.Error(w, http.StatusBadRequest, code, ce.Error())

	case errors.Is(err, domain.ErrNotFound):
		log.Debug("bookmark not found", fields...)
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, domain.ErrNotFound.Error())

	case errors.Is(err, domain.ErrWriteVerificationFailed):
		log.Error("store write not verified", fields...)
		respond.Error(w, http.StatusInternalServerError, respond.CodeWriteVerificationFailed, domain.ErrWriteVerificationFailed.Error())

	case errors.As(err, &se):
		log.Error("store operation failed", fields...)
		respond.Error(w, http.StatusInternalServerError, respond.CodeStoreError, "store "+se.Op+" failed")

	default:
		log.Error("unexpected error", fields...)
		respond.Error(w, http.StatusInternalServerError, respond.CodeStoreError, "internal error")
	}
}
