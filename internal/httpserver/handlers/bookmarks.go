package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/respond"
	"github.com/MrSnakeDoc/conexus/internal/ident"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

const defaultMaxBodyBytes = 1 << 20

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmarks, err := d.Store.List(r.Context())
		if err != nil {
			fail(w, r, d.Logger, "list", uuid.Nil, err)
			return
		}
		if bookmarks == nil {
			bookmarks = []domain.Bookmark{}
		}
		respond.JSON(w, http.StatusOK, bookmarks)
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	ids := d.IDs
	if ids == nil {
		ids = ident.V7{}
	}
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeNewBookmark(w, r, maxBody)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, respond.CodeBodyTooLarge, "request body too large")
			return
		}
		if err != nil {
			fail(w, r, d.Logger, "create", uuid.Nil, err)
			return
		}

		id := ids.Next()
		created, err := d.Store.Insert(r.Context(), id, in.URL, in.Description)
		if err != nil {
			fail(w, r, d.Logger, "create", id, err)
			return
		}

		d.Logger.Debug("bookmark created",
			logger.String("id", created.ID.String()),
			logger.String("url", created.URL))

		w.Header().Set("Location", "/bookmarks/"+created.ID.String())
		respond.JSON(w, http.StatusCreated, created)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, d.Logger, "get", uuid.Nil, domain.NewClientError(domain.KindInvalidID, fmt.Errorf("invalid bookmark id: %w", err)))
			return
		}

		b, err := d.Store.Get(r.Context(), id)
		if err != nil {
			fail(w, r, d.Logger, "get", id, err)
			return
		}
		respond.JSON(w, http.StatusOK, b)
	}
}

// decodeNewBookmark reads exactly one JSON object. Unknown fields such as id
// or created_at are ignored; a wrongly typed field is a client error.
func decodeNewBookmark(w http.ResponseWriter, r *http.Request, maxBody int64) (domain.NewBookmark, error) {
	var in domain.NewBookmark

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, err
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return in, domain.NewClientError(domain.KindInvalidBody, fmt.Errorf("invalid JSON body: %w", err))
	}
	// anything but whitespace after the object, including a stray ] or }
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, err
		}
		return in, domain.NewClientError(domain.KindInvalidBody, errors.New("invalid JSON body: trailing data"))
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}
