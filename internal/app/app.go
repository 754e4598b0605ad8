package app

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"vms-chat-relay/handler"
	"vms-chat-relay/internal/config"
	"vms-chat-relay/internal/integrations/groq"
	"vms-chat-relay/internal/integrations/paramstore"
	"vms-chat-relay/internal/usecase"
)

// NewHandler wires the relay stack from cfg. AWS config is loaded only when
// the credential has to come from SSM.
func NewHandler(ctx context.Context, cfg *config.Config, log *slog.Logger) (*handler.Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := []groq.Option{
		groq.WithBaseURL(cfg.GroqBaseURL),
		groq.WithTimeout(cfg.UpstreamTimeout),
	}

	switch {
	case cfg.GroqAPIKey != "":
		opts = append(opts, groq.WithAPIKey(cfg.GroqAPIKey))
	case cfg.GroqAPIKeyParam != "":
		secrets, err := newParamStore(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, groq.WithSecretSource(secrets, cfg.GroqAPIKeyParam))
	default:
		log.Warn("no Groq credential configured; every relay request will fail",
			"env", "GROQ_API_KEY", "param_env", "GROQ_API_KEY_PARAM")
	}

	client, err := groq.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("app: create groq client: %w", err)
	}
	svc, err := usecase.NewRelayService(client)
	if err != nil {
		return nil, fmt.Errorf("app: create relay service: %w", err)
	}
	h, err := handler.NewHandler(svc, log)
	if err != nil {
		return nil, fmt.Errorf("app: create handler: %w", err)
	}
	return h, nil
}

func newParamStore(ctx context.Context) (*paramstore.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}
	ps, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("app: create paramstore client: %w", err)
	}
	return ps, nil
}
