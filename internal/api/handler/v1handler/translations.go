package v1handler

import (
	"net/http"
	"portal/pkg/serrors"

	"github.com/go-chi/chi/v5"
)

type LookupTranslationsRequest struct {
	Sources []string `json:"sources" validate:"required,max=1000"`
}

type LookupTranslationsResponse struct {
	Locale string            `json:"locale"`
	Hits   map[string]string `json:"hits"`
	Misses []string          `json:"misses"`
}

type StoreTranslationsRequest struct {
	Entries map[string]string `json:"entries" validate:"required,max=1000"`
}

// LookupTranslations returns cached translations of the requested sources.
func (h *Handler) LookupTranslations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Translations == nil {
		h.writeError(w, r, serrors.With(serrors.ErrUnavailable, "translations are disabled"))

		return
	}

	var req LookupTranslationsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	res, err := h.deps.Translations.Lookup(r.Context(), chi.URLParam(r, "locale"), req.Sources)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, LookupTranslationsResponse{
		Locale: res.Locale,
		Hits:   res.Hits,
		Misses: res.Misses,
	})
}

// StoreTranslations saves translations for a locale.
func (h *Handler) StoreTranslations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Translations == nil {
		h.writeError(w, r, serrors.With(serrors.ErrUnavailable, "translations are disabled"))

		return
	}

	var req StoreTranslationsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Translations.Store(r.Context(), chi.URLParam(r, "locale"), req.Entries); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
