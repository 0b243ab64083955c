package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
)

// Chain reads and writes through primary and falls back to the second store when primary
// fails. Deletes clear both stores.
type Chain struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
	logger   *log.Logger
}

var _ ports.SecretStore = (*Chain)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewChain(primary ports.SecretStore, fallback ports.SecretStore, logger *log.Logger) (*Chain, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Chain{primary: primary, fallback: fallback, logger: logger.Named("secrets")}, nil
}

// NewPassFirstWithFileFallback is the store the CLI uses for the auth token.
func NewPassFirstWithFileFallback(fileRoot string, logger *log.Logger) (*Chain, error) {
	return NewChain(NewPassStore(), NewFileStore(fileRoot), logger)
}

func (c *Chain) Put(ctx context.Context, key string, value string) error {
	err := c.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	c.logger.Debug("primary secret store put failed, using fallback", log.String("key", key), log.ErrorField(err))

	fallbackErr := c.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (c *Chain) Get(ctx context.Context, key string) (string, error) {
	value, err := c.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := c.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (c *Chain) Delete(ctx context.Context, key string) error {
	err := c.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := c.fallback.Delete(ctx, key)
	if err != nil && fallbackErr != nil {
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
	if err != nil {
		c.logger.Debug("primary secret store delete failed", log.String("key", key), log.ErrorField(err))
	}

	return fallbackErr
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
