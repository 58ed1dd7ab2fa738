package handler

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"resumecrafter/internal/httputil"
)

// uploadSignatureTTL is how long an ImageKit client upload stays authorized.
const uploadSignatureTTL = 40 * time.Minute

// UploadHandler issues client-side upload credentials for ImageKit
type UploadHandler struct {
	privateKey string
	publicKey  string
	endpoint   string
	now        func() time.Time
	logger     *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(privateKey, publicKey, endpoint string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		privateKey: privateKey,
		publicKey:  publicKey,
		endpoint:   endpoint,
		now:        time.Now,
		logger:     logger,
	}
}

// UploadAuth is the parameter set the ImageKit upload widget expects
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey,omitempty"`
	Endpoint  string `json:"urlEndpoint,omitempty"`
}

// GetUploadAuth returns fresh upload authentication parameters
// GET /api/upload
func (h *UploadHandler) GetUploadAuth(w http.ResponseWriter, r *http.Request) {
	if h.privateKey == "" {
		httputil.RespondError(w, http.StatusServiceUnavailable, "image upload is not configured")
		return
	}

	token := uuid.NewString()
	expire := h.now().Add(uploadSignatureTTL).Unix()

	httputil.RespondJSON(w, http.StatusOK, UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: SignUpload(h.privateKey, token, expire),
		PublicKey: h.publicKey,
		Endpoint:  h.endpoint,
	})
}

// SignUpload computes the hex HMAC-SHA1 of token+expire keyed by privateKey.
func SignUpload(privateKey, token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
