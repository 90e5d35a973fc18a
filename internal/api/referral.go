package api

import (
	"net/http"
)

type referralRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type referralResponse struct {
	Success      bool   `json:"success"`
	ID           string `json:"id"`
	ReferralCode string `json:"referralCode"`
}

// IssueReferral registers a referrer and returns their fresh code.
func (h *Handler) IssueReferral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req referralRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, err := h.referrals.Issue(ctx, req.Email, req.Name)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.codesIssued.Add(ctx, 1)
	writeJSON(ctx, w, http.StatusOK, referralResponse{
		Success:      true,
		ID:           rec.ID,
		ReferralCode: rec.Code,
	})
}
