package v1handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the v1 router. Routes changing state or reading per-user data
// require a bearer token verified by sec.
func (h *Handler) Routes(sec *SecHandler) chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
	})

	r.Post("/place-links/resolve", h.ResolvePlaceLink)
	r.Post("/pdf-urls/normalize", h.NormalizePDFURLs)
	r.Get("/theme", h.GetTheme)
	r.Post("/translations/{locale}/lookup", h.LookupTranslations)

	r.Group(func(r chi.Router) {
		r.Use(sec.Middleware(h.writeError))

		r.Put("/translations/{locale}", h.StoreTranslations)

		if h.deps.Documents == nil {
			return
		}
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", h.RegisterDocument)
			r.Get("/", h.ListDocuments)
			r.Get("/{id}", h.GetDocument)
			r.Delete("/{id}", h.DeleteDocument)
		})
	})

	return r
}
