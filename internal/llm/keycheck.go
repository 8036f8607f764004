package llm

import (
	"context"
	"errors"
	"fmt"
)

// CheckKey verifies that the provider accepts its API key with a minimal
// generation round-trip. A rejected key is returned as *ErrUnauthorized.
func CheckKey(ctx context.Context, p Provider) error {
	ctx = WithPurpose(ctx, PurposeKeyCheck)
	_, err := p.Generate(ctx, Request{
		Messages:  UserMessage("Reply with the single word: ok"),
		MaxTokens: 16,
	})
	if err == nil {
		return nil
	}

	var unauth *ErrUnauthorized
	if errors.As(err, &unauth) {
		return err
	}
	return fmt.Errorf("check API key: %w", err)
}

// IsUnauthorized reports whether err is a rejected API key.
func IsUnauthorized(err error) bool {
	var unauth *ErrUnauthorized
	return errors.As(err, &unauth)
}
