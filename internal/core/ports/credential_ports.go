package ports

import (
	"context"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

// CredentialRepository persists the users relation. Get returns a nil
// credential and a nil error when the person has not enrolled. Create
// returns domain.ErrConflict when a credential already exists.
type CredentialRepository interface {
	Get(ctx context.Context, person domain.Person) (*domain.Credential, error)
	Create(ctx context.Context, credential *domain.Credential) error
}

type IdentityService interface {
	Lookup(ctx context.Context, person domain.Person) (*domain.Credential, error)
	Enroll(ctx context.Context, person domain.Person, secret string) error
	Verify(ctx context.Context, person domain.Person, secret string) (bool, error)
	Login(ctx context.Context, name, secret string) (*domain.LoginOutcome, error)
	EnrollAndLogin(ctx context.Context, name, secret string) (*domain.LoginOutcome, error)
}
