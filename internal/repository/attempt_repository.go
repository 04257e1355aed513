package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shailesh1606/TestMocker/internal/model"
)

// AttemptRepository handles per-question attempt record data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Insert stores a single attempt record.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.Attempt) error {
	correct, err := marshalAnswer(a.CorrectAnswer)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (attempt_id, question_index, selected_answer, correct_answer, time_spent_sec, hint_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.AttemptID, a.QuestionIndex, a.SelectedAnswer, correct, a.TimeSpentSec, a.HintCount, a.Timestamp,
	)
	return err
}

// BulkInsert stores a batch of attempt records with a single UNNEST insert.
func (r *AttemptRepository) BulkInsert(ctx context.Context, batch []*model.Attempt) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	attemptIDs := make([]uuid.UUID, 0, n)
	indices := make([]int, 0, n)
	selected := make([]*int, 0, n)
	correct := make([][]byte, 0, n)
	timeSpent := make([]int, 0, n)
	hints := make([]int, 0, n)
	createdAts := make([]time.Time, 0, n)

	for _, a := range batch {
		c, err := marshalAnswer(a.CorrectAnswer)
		if err != nil {
			return err
		}
		attemptIDs = append(attemptIDs, a.AttemptID)
		indices = append(indices, a.QuestionIndex)
		selected = append(selected, a.SelectedAnswer)
		correct = append(correct, c)
		timeSpent = append(timeSpent, a.TimeSpentSec)
		hints = append(hints, a.HintCount)
		createdAts = append(createdAts, a.Timestamp)
	}

	query := `
		INSERT INTO attempts (attempt_id, question_index, selected_answer, correct_answer, time_spent_sec, hint_count, created_at)
		SELECT u.attempt_id, u.question_index, u.selected_answer, u.correct_answer, u.time_spent_sec, u.hint_count, u.created_at
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::int[],
			$4::jsonb[],
			$5::int[],
			$6::int[],
			$7::timestamptz[]
		) AS u (attempt_id, question_index, selected_answer, correct_answer, time_spent_sec, hint_count, created_at)
	`
	_, err := r.pool.Exec(ctx, query, attemptIDs, indices, selected, correct, timeSpent, hints, createdAts)
	return err
}

// ListByAttemptID retrieves all records of one attempt, ordered by question.
func (r *AttemptRepository) ListByAttemptID(ctx context.Context, attemptID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_index, selected_answer, correct_answer, time_spent_sec, hint_count, created_at
		 FROM attempts
		 WHERE attempt_id = $1
		 ORDER BY question_index`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var correct []byte
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionIndex, &a.SelectedAnswer, &correct, &a.TimeSpentSec, &a.HintCount, &a.Timestamp); err != nil {
			return nil, err
		}
		if len(correct) > 0 {
			var ans model.Answer
			if err := json.Unmarshal(correct, &ans); err != nil {
				return nil, fmt.Errorf("decode correct answer: %w", err)
			}
			a.CorrectAnswer = &ans
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ListRecent retrieves attempt records across all attempts, newest first.
func (r *AttemptRepository) ListRecent(ctx context.Context, page, perPage int) ([]model.Attempt, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attempts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_index, selected_answer, correct_answer, time_spent_sec, hint_count, created_at
		 FROM attempts
		 ORDER BY created_at DESC, question_index
		 LIMIT $1 OFFSET $2`, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var correct []byte
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionIndex, &a.SelectedAnswer, &correct, &a.TimeSpentSec, &a.HintCount, &a.Timestamp); err != nil {
			return nil, 0, err
		}
		if len(correct) > 0 {
			var ans model.Answer
			if err := json.Unmarshal(correct, &ans); err != nil {
				return nil, 0, fmt.Errorf("decode correct answer: %w", err)
			}
			a.CorrectAnswer = &ans
		}
		attempts = append(attempts, a)
	}
	return attempts, total, rows.Err()
}

// ClearByAttemptID removes all records of one attempt.
func (r *AttemptRepository) ClearByAttemptID(ctx context.Context, attemptID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attempts WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// marshalAnswer encodes a structured answer for the jsonb column; nil stays
// NULL rather than the JSON literal "null".
func marshalAnswer(a *model.Answer) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode answer: %w", err)
	}
	return b, nil
}
