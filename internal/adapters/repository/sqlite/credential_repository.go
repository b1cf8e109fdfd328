package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/queridometro/internal/adapters/repository/dbx"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type credentialRepository struct {
	db dbx.DBTX
}

func NewCredentialRepository(db dbx.DBTX) ports.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Get(ctx context.Context, person domain.Person) (*domain.Credential, error) {
	query := `SELECT name, secret, created_at FROM users WHERE name = ?`
	credential := &domain.Credential{}
	var name string
	err := r.db.QueryRowContext(ctx, query, string(person)).Scan(&name, &credential.Secret, &credential.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	credential.Person = domain.Person(name)
	return credential, nil
}

func (r *credentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	query := `INSERT INTO users (name, secret, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, string(credential.Person), credential.Secret, credential.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}
