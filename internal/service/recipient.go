package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RecipientService manages the address that receives automatic threat alerts.
type RecipientService interface {
	// Get returns "" when no recipient is set.
	Get(ctx context.Context) (string, error)
	// Set validates and stores email; "" clears the recipient.
	Set(ctx context.Context, email string) error
}

type recipientService struct {
	store store.RecipientStore
}

func NewRecipientService(recipientStore store.RecipientStore) RecipientService {
	return &recipientService{store: recipientStore}
}

func (s *recipientService) Get(ctx context.Context) (string, error) {
	email, err := s.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("reading alert recipient: %w", err)
	}
	return email, nil
}

func (s *recipientService) Set(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	if err := s.store.Set(ctx, email); err != nil {
		return fmt.Errorf("storing alert recipient: %w", err)
	}

	if email == "" {
		slog.InfoContext(ctx, "alert recipient cleared")
	} else {
		slog.InfoContext(ctx, "alert recipient set", "email", email)
	}
	return nil
}
