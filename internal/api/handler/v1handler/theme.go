package v1handler

import (
	"net/http"
	"portal/pkg/serrors"
	"time"
)

type ThemeResponse struct {
	Mode             string    `json:"mode"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	RemainingSeconds int64     `json:"remainingSeconds"`
}

// GetTheme returns the theme window containing the at query parameter, or now.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	at := h.now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "at must be an RFC 3339 timestamp"))

			return
		}
		at = t
	}

	win := h.deps.Theme.At(at)

	writeJSON(w, http.StatusOK, ThemeResponse{
		Mode:             string(win.Mode),
		Start:            win.Start,
		End:              win.End,
		RemainingSeconds: int64(win.Remaining(at) / time.Second),
	})
}
