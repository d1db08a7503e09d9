package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/chirp/cache"
	"github.com/s0up4200/chirp/logging"
)

const (
	// SignatureHeader carries the HMAC-SHA256 of the request body
	SignatureHeader = "X-Twitter-Webhooks-Signature"

	signaturePrefix = "sha256="
	maxBodyBytes    = 1 << 20
)

// HandlerFunc receives a dispatched event
type HandlerFunc func(ctx context.Context, ev Event)

// Option configures a Handler
type Option func(*Handler)

// WithSignatureCheck turns request signature verification on or off. It is
// on by default.
func WithSignatureCheck(enabled bool) Option {
	return func(h *Handler) {
		h.checkSignature = enabled
	}
}

// WithLogger sets the handler's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithCache stores users, tweets and messages seen in events and resolves
// deleted tweets and read receipts from it.
func WithCache(c cache.Cache) Option {
	return func(h *Handler) {
		if c != nil {
			h.cache = c
		}
	}
}

// Handler answers CRC challenges and dispatches account activity deliveries
type Handler struct {
	secret         []byte
	checkSignature bool
	logger         zerolog.Logger
	cache          cache.Cache

	mu       sync.RWMutex
	handlers map[Kind][]HandlerFunc
	catchAll []HandlerFunc
}

// NewHandler creates a handler that signs and verifies with the app's
// consumer secret.
func NewHandler(consumerSecret string, opts ...Option) (*Handler, error) {
	if consumerSecret == "" {
		return nil, errors.New("consumer secret is required")
	}

	h := &Handler{
		secret:         []byte(consumerSecret),
		checkSignature: true,
		logger:         logging.Logger().With().Str("module", "webhook").Logger(),
		cache:          cache.Nop{},
		handlers:       make(map[Kind][]HandlerFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// On registers fn for events of kind.
func (h *Handler) On(kind Kind, fn HandlerFunc) {
	h.mu.Lock()
	h.handlers[kind] = append(h.handlers[kind], fn)
	h.mu.Unlock()
}

// OnAny registers fn for every event.
func (h *Handler) OnAny(fn HandlerFunc) {
	h.mu.Lock()
	h.catchAll = append(h.catchAll, fn)
	h.mu.Unlock()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request received")

	switch r.Method {
	case http.MethodGet:
		h.handleCRC(w, r)
	case http.MethodPost:
		h.handleEvents(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		h.respondError(w, http.StatusMethodNotAllowed, errors.New(r.Method), "method not allowed")
	}
}

func (h *Handler) handleCRC(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("crc_token")
	if token == "" {
		h.respondError(w, http.StatusBadRequest, errors.New("missing crc_token"), "crc_token is required")
		return
	}

	h.logger.Info().Msg("Answering CRC challenge")
	h.respond(w, http.StatusOK, map[string]string{"response_token": CRCResponse(string(h.secret), token)})
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, err, "body too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, err, "could not read body")
		return
	}

	if h.checkSignature && !h.validSignature(r.Header.Get(SignatureHeader), body) {
		h.respondError(w, http.StatusUnauthorized, errors.New("signature mismatch"), "invalid signature")
		return
	}

	events, err := h.Parse(r.Context(), body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err, "malformed payload")
		return
	}
	if len(events) == 0 {
		h.logger.Debug().Int("bytes", len(body)).Msg("Ignoring unknown webhook payload")
	}

	for _, ev := range events {
		h.dispatch(r.Context(), ev)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) dispatch(ctx context.Context, ev Event) {
	h.mu.RLock()
	fns := append(append([]HandlerFunc(nil), h.handlers[ev.Kind()]...), h.catchAll...)
	h.mu.RUnlock()

	h.logger.Debug().
		Str("kind", string(ev.Kind())).
		Str("for_user_id", ev.ForUser()).
		Int("handlers", len(fns)).
		Msg("Dispatching event")

	for _, fn := range fns {
		fn(ctx, ev)
	}
}

func (h *Handler) validSignature(header string, body []byte) bool {
	got, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(got)
	if err != nil {
		return false
	}
	return hmac.Equal(sig, sign(h.secret, body))
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Could not encode JSON body")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, err error, msg string) {
	h.logger.Warn().Err(err).Int("status", status).Msg(msg)
	h.respond(w, status, map[string]string{"error": msg})
}

// CRCResponse is the response_token for a challenge token.
func CRCResponse(consumerSecret, token string) string {
	return signaturePrefix + base64.StdEncoding.EncodeToString(sign([]byte(consumerSecret), []byte(token)))
}

// Signature is the header value a delivery of body is signed with.
func Signature(consumerSecret string, body []byte) string {
	return signaturePrefix + base64.StdEncoding.EncodeToString(sign([]byte(consumerSecret), body))
}

func sign(secret, data []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	return mac.Sum(nil)
}
