package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/db"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// PostgresThreatStore stores each threat as a JSONB document ordered by insertion.
type PostgresThreatStore struct {
	db *db.DB
}

func NewPostgresThreatStore(database *db.DB) *PostgresThreatStore {
	return &PostgresThreatStore{db: database}
}

func (s *PostgresThreatStore) List(ctx context.Context) ([]model.Threat, error) {
	rows, err := s.db.Pool().Query(ctx, `SELECT payload FROM threats ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing threats: %w", err)
	}
	defer rows.Close()

	threats := []model.Threat{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning threat: %w", err)
		}
		var t model.Threat
		if err := json.Unmarshal(payload, &t); err != nil {
			return nil, fmt.Errorf("decoding threat: %w", err)
		}
		threats = append(threats, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating threats: %w", err)
	}
	return threats, nil
}

func (s *PostgresThreatStore) Append(ctx context.Context, threat model.Threat) error {
	return insertThreat(ctx, s.db.Pool(), threat)
}

func (s *PostgresThreatStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Pool().Exec(ctx, `DELETE FROM threats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting threat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresThreatStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.Pool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM threats WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking threat id: %w", err)
	}
	return exists, nil
}

func (s *PostgresThreatStore) Replace(ctx context.Context, threats []model.Threat) error {
	return s.db.WithTx(ctx, func(q db.Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM threats`); err != nil {
			return fmt.Errorf("clearing threats: %w", err)
		}
		for _, t := range threats {
			if err := insertThreat(ctx, q, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertThreat(ctx context.Context, q db.Querier, t model.Threat) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding threat: %w", err)
	}
	tag, err := q.Exec(ctx,
		`INSERT INTO threats (id, payload, expires_at, persistent) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		t.ID, payload, t.ExpiresAt, t.Durable())
	if err != nil {
		return fmt.Errorf("inserting threat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateID
	}
	return nil
}

// PostgresRecipientStore keeps the recipient in a single-row table.
type PostgresRecipientStore struct {
	db *db.DB
}

func NewPostgresRecipientStore(database *db.DB) *PostgresRecipientStore {
	return &PostgresRecipientStore{db: database}
}

func (s *PostgresRecipientStore) Get(ctx context.Context) (string, error) {
	var email string
	err := s.db.Pool().QueryRow(ctx, `SELECT email FROM alert_recipient WHERE singleton`).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading recipient: %w", err)
	}
	return email, nil
}

func (s *PostgresRecipientStore) Set(ctx context.Context, email string) error {
	var err error
	if email == "" {
		_, err = s.db.Pool().Exec(ctx, `DELETE FROM alert_recipient`)
	} else {
		_, err = s.db.Pool().Exec(ctx,
			`INSERT INTO alert_recipient (singleton, email, updated_at) VALUES (TRUE, $1, now())
			 ON CONFLICT (singleton) DO UPDATE SET email = EXCLUDED.email, updated_at = now()`,
			email)
	}
	if err != nil {
		return fmt.Errorf("writing recipient: %w", err)
	}
	return nil
}
