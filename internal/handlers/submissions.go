package handlers

import "net/http"

// Gallery lists the most recent submissions across all challenges.
func (h *Challenges) Gallery(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.Gallery(r.Context())
	if err != nil {
		serverError(w, "gallery failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": orEmptySubs(subs)})
}
