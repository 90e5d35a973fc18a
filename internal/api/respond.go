package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/order"
	"github.com/solkim/tracksuit-store/internal/domain/payment"
	"github.com/solkim/tracksuit-store/internal/domain/validate"
)

// errorResponse is the uniform error envelope. Rule is set only for
// validation rejections so clients can branch without parsing messages.
type errorResponse struct {
	Error string `json:"error"`
	Rule  string `json:"rule,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(ctx).Error("encoding response", zap.Error(err))
	}
}

// writeError maps a domain error onto the HTTP surface. Messages for 5xx
// responses never leak internals; the wrapped error goes to the log only.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Error: vErr.Message,
			Rule:  vErr.Rule,
		})
		return
	}

	var rejected *payment.RejectedError
	if errors.As(err, &rejected) {
		writeJSON(ctx, w, http.StatusPaymentRequired, errorResponse{
			Error: "payment could not be verified",
		})
		return
	}

	if errors.Is(err, order.ErrSubmitTimeout) {
		zctx.From(ctx).Error("order persistence deadline expired", zap.Error(err))
		writeJSON(ctx, w, http.StatusGatewayTimeout, errorResponse{
			Error: "the order could not be confirmed in time, it may or may not have been recorded",
		})
		return
	}

	var pErr *order.PersistenceError
	if errors.As(err, &pErr) {
		zctx.From(ctx).Error("order persistence failed", zap.Error(err))
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Error: "could not save the order, please try again",
		})
		return
	}

	zctx.From(ctx).Error("request failed", zap.Error(err))
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
		Error: "internal error",
	})
}

// decodeBody strictly decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return validate.Failf(validate.RuleInvalidBody, "invalid request body")
	}
	return nil
}
