package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/alert"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

type AlertService interface {
	// SendLatest e-mails the most recently stored threat to email.
	SendLatest(ctx context.Context, email, userLocation string) (model.Threat, error)
	// Notify e-mails threat to the configured recipient. It is a no-op when none is set.
	Notify(ctx context.Context, threat model.Threat) error
}

type alertService struct {
	threats    ThreatService
	recipients RecipientService
	generator  alert.TextGenerator
	sender     mail.Sender
}

func NewAlertService(threats ThreatService, recipients RecipientService, generator alert.TextGenerator, sender mail.Sender) AlertService {
	return &alertService{
		threats:    threats,
		recipients: recipients,
		generator:  generator,
		sender:     sender,
	}
}

func (s *alertService) SendLatest(ctx context.Context, email, userLocation string) (model.Threat, error) {
	threat, err := s.threats.Latest(ctx)
	if err != nil {
		return model.Threat{}, err
	}

	if err := s.send(ctx, threat, email, userLocation); err != nil {
		return model.Threat{}, err
	}
	return threat, nil
}

func (s *alertService) Notify(ctx context.Context, threat model.Threat) error {
	email, err := s.recipients.Get(ctx)
	if err != nil {
		return err
	}
	if email == "" {
		slog.DebugContext(ctx, "no alert recipient set, skipping notification", "threat_id", threat.ID)
		return nil
	}
	return s.send(ctx, threat, email, "")
}

func (s *alertService) send(ctx context.Context, threat model.Threat, email, userLocation string) error {
	if !s.sender.Enabled() {
		return mail.ErrNotConfigured
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ThreatID: logger.Ptr(threat.ID)})
	msg := alert.Compose(ctx, s.generator, threat, email, userLocation)
	if err := s.sender.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send alert", "error", err, "to", email)
		return fmt.Errorf("sending alert: %w", err)
	}

	slog.InfoContext(ctx, "alert sent", "to", email, "subject", msg.Subject)
	return nil
}
