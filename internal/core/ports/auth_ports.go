package ports

import "github.com/vncsmyrnk/queridometro/internal/core/domain"

type TokenService interface {
	Issue(person domain.Person) (string, error)
	Parse(token string) (domain.Person, error)
}
