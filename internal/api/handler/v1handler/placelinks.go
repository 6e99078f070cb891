package v1handler

import (
	"net/http"
	"portal/pkg/controller"
	"portal/pkg/placelink"
	"portal/pkg/serrors"
)

type ResolvePlaceLinkRequest struct {
	Text string `json:"text" validate:"max=4096"`
}

type PlaceLink struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	DeepLink bool   `json:"deepLink"`
	// FallbackURL is the web search opened when a deep link does not resolve.
	FallbackURL string `json:"fallbackUrl,omitempty"`
}

type ResolvePlaceLinkResponse struct {
	Platform string     `json:"platform"`
	Link     *PlaceLink `json:"link"`
}

// ToPlaceLink converts a resolved link. A nil link stays nil.
func ToPlaceLink(link *placelink.Link) *PlaceLink {
	if link == nil {
		return nil
	}

	out := &PlaceLink{Label: link.Label, URL: link.URL}
	if placelink.IsDeepLink(link.URL) {
		out.DeepLink = true
		out.FallbackURL = placelink.WebSearchURL(link.Label)
	}

	return out
}

// ResolvePlaceLink builds a map link for free text. The platform query
// parameter overrides the platform detected for the request.
func (h *Handler) ResolvePlaceLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	platform := controller.GetPlatform(ctx)
	if raw := r.URL.Query().Get("platform"); raw != "" {
		p, ok := placelink.ParsePlatform(raw)
		if !ok {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "unknown platform %q", raw))

			return
		}
		platform = p
	}

	var req ResolvePlaceLinkRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	link := placelink.Resolve(req.Text, platform)
	if link != nil {
		h.deps.Metrics.RecordResolution(ctx, platform.String(), placelink.ExtractURL(req.Text) != "")
	}

	writeJSON(w, http.StatusOK, ResolvePlaceLinkResponse{
		Platform: platform.String(),
		Link:     ToPlaceLink(link),
	})
}
