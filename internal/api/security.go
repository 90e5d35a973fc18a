package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/solkim/tracksuit-store/internal/domain/auth"
)

// requireAdmin authenticates the bearer token by computing its HMAC-SHA256
// under the server pepper, looking the hash up, and performing a
// constant-time comparison against the stored hash. Anything short of a full
// match is a uniform 401.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		mac := hmac.New(sha256.New, h.pepper)
		mac.Write([]byte(token))
		sum := mac.Sum(nil)

		key, err := h.apikeys.FindByHash(ctx, hex.EncodeToString(sum))
		if err != nil {
			zctx.From(ctx).Warn("admin key lookup failed", zap.Error(err))
			unauthorized(w)
			return
		}

		// Constant-time comparison guards against timing side-channels even
		// though the lookup already succeeded.
		stored, err := hex.DecodeString(key.KeyHash)
		if err != nil || subtle.ConstantTimeCompare(sum, stored) != 1 {
			unauthorized(w)
			return
		}

		if !key.HasScope(auth.ScopeAdmin) {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
