package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ashutosh2ingh/AshMart/internal/domain"
)

// CreateAttempt persists a new checkout attempt together with the per-line
// progress rows carrying the client-generated idempotency keys.
func (s *Store) CreateAttempt(ctx context.Context, attempt *domain.CheckoutAttempt) error {
	snapshotJSON, err := json.Marshal(attempt.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO checkout_attempts (id, address_id, payment_id, status, snapshot_json)
		 VALUES (?, ?, ?, ?, ?)`,
		attempt.ID, attempt.AddressID, attempt.PaymentID, attempt.Status.String(), string(snapshotJSON))
	if err != nil {
		return fmt.Errorf("failed to insert checkout attempt: %w", err)
	}

	for _, line := range attempt.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attempt_lines (attempt_id, variation_id, quantity, idempotency_key)
			 VALUES (?, ?, ?, ?)`,
			attempt.ID, line.VariationID, line.Quantity, line.IdempotencyKey)
		if err != nil {
			return fmt.Errorf("failed to insert attempt line: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetAttempt(ctx context.Context, id string) (*domain.CheckoutAttempt, error) {
	attempt := &domain.CheckoutAttempt{ID: id}
	var statusStr, snapshotJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT address_id, payment_id, status, snapshot_json
		 FROM checkout_attempts WHERE id = ?`, id).
		Scan(&attempt.AddressID, &attempt.PaymentID, &statusStr, &snapshotJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout attempt: %w", err)
	}

	attempt.Status = domain.CheckoutStatus(statusStr)
	if e2 := json.Unmarshal([]byte(snapshotJSON), &attempt.Snapshot); e2 != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", e2)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT variation_id, quantity, idempotency_key,
		        ordered_at IS NOT NULL, deleted_at IS NOT NULL
		 FROM attempt_lines WHERE attempt_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.AttemptLine
		if e2 := rows.Scan(&line.VariationID, &line.Quantity, &line.IdempotencyKey,
			&line.Ordered, &line.Deleted); e2 != nil {
			return nil, fmt.Errorf("failed to scan attempt line: %w", e2)
		}
		attempt.Lines = append(attempt.Lines, line)
	}
	if e2 := rows.Err(); e2 != nil {
		return nil, e2
	}

	return attempt, nil
}

func (s *Store) SetAttemptStatus(ctx context.Context, id string, status domain.CheckoutStatus) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE checkout_attempts SET status = ? WHERE id = ?`,
		status.String(), id); err != nil {
		return fmt.Errorf("failed to update attempt status: %w", err)
	}
	return nil
}

func (s *Store) SetAttemptPayment(ctx context.Context, id, paymentID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE checkout_attempts SET payment_id = ? WHERE id = ?`,
		paymentID, id); err != nil {
		return fmt.Errorf("failed to record payment id: %w", err)
	}
	return nil
}

func (s *Store) MarkLineOrdered(ctx context.Context, attemptID string, variationID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE attempt_lines SET ordered_at = CURRENT_TIMESTAMP
		 WHERE attempt_id = ? AND variation_id = ?`,
		attemptID, variationID); err != nil {
		return fmt.Errorf("failed to mark line ordered: %w", err)
	}
	return nil
}

func (s *Store) MarkLineDeleted(ctx context.Context, attemptID string, variationID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE attempt_lines SET deleted_at = CURRENT_TIMESTAMP
		 WHERE attempt_id = ? AND variation_id = ?`,
		attemptID, variationID); err != nil {
		return fmt.Errorf("failed to mark line deleted: %w", err)
	}
	return nil
}
