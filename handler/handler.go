package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"vms-chat-relay/internal/usecase"
)

const (
	correlationHeader = "X-Correlation-Id"
	upstreamErrPrefix = "Groq API error: "
	methodNotAllowed  = "Method not allowed"
)

type Relayer interface {
	Relay(ctx context.Context, in usecase.RelayInput) (usecase.RelayOutput, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the chat relay over API Gateway events and plain net/http.
type Handler struct {
	relay Relayer
	log   *slog.Logger
}

// NewHandler returns a Handler. A nil logger means slog.Default().
func NewHandler(relay Relayer, log *slog.Logger) (*Handler, error) {
	if relay == nil {
		return nil, errors.New("handler: relayer must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{relay: relay, log: log}, nil
}

// result is a transport-neutral response.
type result struct {
	status int
	body   []byte
}

// Handle is the Lambda entry point for API Gateway proxy events.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := correlationIDFrom(event.Headers)

	var res result
	body, err := eventBody(event)
	if err != nil && event.HTTPMethod == http.MethodPost {
		res = h.fail(ctx, correlationID, event.HTTPMethod, err)
	} else {
		res = h.serve(ctx, event.HTTPMethod, body, correlationID)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: res.status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(res.body),
	}, nil
}

func eventBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return nil, fmt.Errorf("handler: decode base64 body: %w", err)
	}
	return body, nil
}

// serve runs one relay exchange. Only POST is relayed; anything else gets 405
// without touching the upstream.
func (h *Handler) serve(ctx context.Context, method string, body []byte, correlationID string) result {
	start := time.Now()
	log := h.log.With("correlation_id", correlationID, "method", method)

	if method != http.MethodPost {
		log.WarnContext(ctx, "chat relay rejected", "status", http.StatusMethodNotAllowed)
		return errorResult(http.StatusMethodNotAllowed, methodNotAllowed)
	}

	out, err := h.relay.Relay(ctx, usecase.RelayInput{Body: body})
	if err != nil {
		return h.fail(ctx, correlationID, method, err)
	}

	log.InfoContext(ctx, "chat relay",
		"status", http.StatusOK,
		"messages", out.MessageCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result{status: http.StatusOK, body: out.Body}
}

// fail maps an error to the three-bucket response taxonomy.
func (h *Handler) fail(ctx context.Context, correlationID, method string, err error) result {
	status, message := http.StatusInternalServerError, err.Error()

	var relayErr *usecase.Error
	if errors.As(err, &relayErr) {
		switch relayErr.Code {
		case usecase.ErrorUpstreamRejected:
			status, message = relayErr.Status, upstreamErrPrefix+relayErr.Detail
		default:
			message = relayErr.Cause()
		}
	}

	h.log.ErrorContext(ctx, "chat relay failed",
		"correlation_id", correlationID,
		"method", method,
		"status", status,
		"err", err,
	)
	return errorResult(status, message)
}

func errorResult(status int, message string) result {
	return result{status: status, body: encodeJSON(errorResponse{Error: message})}
}

// encodeJSON marshals v without HTML escaping so upstream text is relayed as is.
func encodeJSON(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func correlationIDFrom(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return newUUID()
}

var newUUID = func() string {
	return uuid.NewString()
}
