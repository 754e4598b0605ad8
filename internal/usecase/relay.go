package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"vms-chat-relay/internal/domain"
)

// Fixed sampling parameters for every relayed conversation.
const (
	Model       = "llama-3.3-70b-versatile"
	Temperature = 0.7
	MaxTokens   = 500
)

type LLMClient interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (json.RawMessage, error)
}

type upstreamStatusError interface {
	HTTPStatusCode() int
	UpstreamBody() string
}

type RelayService struct {
	llm    LLMClient
	system json.RawMessage
}

type RelayInput struct {
	Body []byte
}

type RelayOutput struct {
	// Body is the upstream completion JSON.
	Body json.RawMessage
	// MessageCount is the number of caller messages forwarded, excluding the
	// system message.
	MessageCount int
}

func NewRelayService(llm LLMClient) (*RelayService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	return &RelayService{llm: llm, system: systemMessage()}, nil
}

// Relay forwards the caller's conversation, prefixed with the system policy,
// to the upstream provider. Each call is independent.
func (s *RelayService) Relay(ctx context.Context, in RelayInput) (RelayOutput, error) {
	caller, err := parseCallerMessages(in.Body)
	if err != nil {
		return RelayOutput{}, newError(ErrorInternal, "invalid_request_json", err)
	}

	body, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model:       Model,
		Messages:    buildRelayMessages(s.system, caller),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		var statusErr upstreamStatusError
		if errors.As(err, &statusErr) {
			e := newError(ErrorUpstreamRejected, "upstream_status", err)
			e.Status = statusErr.HTTPStatusCode()
			e.Detail = statusErr.UpstreamBody()
			return RelayOutput{}, e
		}
		return RelayOutput{}, newError(ErrorInternal, "upstream_call_failed", err)
	}
	if !json.Valid(body) {
		return RelayOutput{}, newError(ErrorInternal, "upstream_malformed_response", errors.New("usecase: upstream returned invalid JSON"))
	}

	return RelayOutput{Body: body, MessageCount: len(caller)}, nil
}
