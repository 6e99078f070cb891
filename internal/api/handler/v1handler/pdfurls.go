package v1handler

import (
	"net/http"
	"portal/pkg/pdfurl"
)

type NormalizePDFURLsRequest struct {
	URLs []string `json:"urls" validate:"required,max=500,dive,max=4096"`
}

type NormalizedURL struct {
	Input     string `json:"input"`
	URL       string `json:"url"`
	Rule      string `json:"rule"`
	Ambiguous bool   `json:"ambiguous"`
}

type NormalizePDFURLsResponse struct {
	Results []NormalizedURL `json:"results"`
}

// NormalizePDFURLs rewrites every input to its canonical document URL. Results
// keep the input order.
func (h *Handler) NormalizePDFURLs(w http.ResponseWriter, r *http.Request) {
	var req NormalizePDFURLsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	results := make([]NormalizedURL, 0, len(req.URLs))
	for _, in := range req.URLs {
		res := pdfurl.Classify(in)
		h.deps.Metrics.RecordNormalization(r.Context(), string(res.Rule))
		results = append(results, NormalizedURL{
			Input:     in,
			URL:       res.URL,
			Rule:      string(res.Rule),
			Ambiguous: res.Ambiguous,
		})
	}

	writeJSON(w, http.StatusOK, NormalizePDFURLsResponse{Results: results})
}
