package api

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/contact"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// SubmitContact validates, persists, and forwards a contact-form message.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	msg, err := contact.Validate(contact.Message{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	id, err := h.contacts.Create(ctx, &msg)
	if err != nil {
		zctx.From(ctx).Error("persisting contact message", zap.Error(err))
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Error: "could not save the message, please try again",
		})
		return
	}
	msg.ID = id

	h.notifier.ContactReceived(&msg)

	writeJSON(ctx, w, http.StatusOK, contactResponse{Success: true, ID: id})
}
