package memory

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type credentialRepository struct {
	mu    sync.RWMutex
	users map[domain.Person]domain.Credential
}

func NewCredentialRepository() ports.CredentialRepository {
	return &credentialRepository{users: make(map[domain.Person]domain.Credential)}
}

func (r *credentialRepository) Get(ctx context.Context, person domain.Person) (*domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.users[person]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *credentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[credential.Person]; ok {
		return domain.ErrConflict
	}
	r.users[credential.Person] = *credential
	return nil
}
