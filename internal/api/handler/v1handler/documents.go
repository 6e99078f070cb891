package v1handler

import (
	"net/http"
	"portal/pkg/domain"
	"portal/pkg/serrors"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RegisterDocumentRequest struct {
	URL string `json:"url" validate:"required,max=4096"`
}

type DocumentList struct {
	Items      []domain.Document `json:"items"`
	NextCursor *string           `json:"nextCursor"`
}

func documentIDParam(r *http.Request) (domain.DocumentID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.DocumentID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid document id %q", raw)
	}

	return domain.DocumentID(id), nil
}

// RegisterDocument normalizes the submitted URL, stores the document and
// schedules its availability check.
func (h *Handler) RegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req RegisterDocumentRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	doc, err := h.deps.Documents.Register(r.Context(), GetUserIDFromContext(r.Context()), req.URL)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

// ListDocuments returns a page of the caller's documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var limit uint
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid limit %q", raw))

			return
		}
		limit = uint(v)
	}

	docs, next, err := h.deps.Documents.UserDocuments(r.Context(),
		GetUserIDFromContext(r.Context()),
		domain.DocumentStatus(q.Get("status")),
		q.Get("cursor"),
		limit)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	list := DocumentList{Items: docs}
	if list.Items == nil {
		list.Items = []domain.Document{}
	}
	if next != "" {
		list.NextCursor = &next
	}

	writeJSON(w, http.StatusOK, list)
}

// GetDocument returns one of the caller's documents.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDParam(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	doc, err := h.deps.Documents.Document(r.Context(), GetUserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument soft-deletes one of the caller's documents.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := documentIDParam(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Documents.Delete(r.Context(), GetUserIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
