package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/dbx"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) HasVoted(ctx context.Context, voter domain.Person, day domain.DayKey) (bool, error) {
	query := `SELECT 1 FROM votes WHERE voter = $1 AND day = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, string(voter), string(day)).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

// AppendBallot inserts all records in one transaction. A unique violation
// on (voter, target, day) rolls everything back and reports
// domain.ErrConflict.
func (r *voteRepository) AppendBallot(ctx context.Context, records []domain.VoteRecord) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `
			INSERT INTO votes (id, ballot_id, voter, target, emoji, day, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare vote statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			res, err := stmt.ExecContext(ctx, rec.ID, rec.BallotID, rec.Voter, rec.Target, string(rec.Emoji), string(rec.Day), rec.CreatedAt)
			if err != nil {
				if isUniqueViolation(err) {
					return domain.ErrConflict
				}
				return fmt.Errorf("failed to insert vote: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			if n != 1 {
				return fmt.Errorf("failed to insert vote: %d rows affected", n)
			}
		}
		return nil
	})
}

func (r *voteRepository) ListByDay(ctx context.Context, day domain.DayKey) ([]domain.VoteRecord, error) {
	query := `
		SELECT id, ballot_id, voter, target, emoji, day, created_at
		FROM votes
		WHERE day = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, string(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var records []domain.VoteRecord
	for rows.Next() {
		var rec domain.VoteRecord
		if err := rows.Scan(&rec.ID, &rec.BallotID, &rec.Voter, &rec.Target, &rec.Emoji, &rec.Day, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return records, nil
}

func (r *voteRepository) CountByDay(ctx context.Context, day domain.DayKey) (int, error) {
	query := `SELECT COUNT(*) FROM votes WHERE day = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, query, string(day)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}
