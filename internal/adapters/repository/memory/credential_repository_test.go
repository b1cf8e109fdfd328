package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository()

	c, err := repo.Get(ctx, "Ana")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, repo.Create(ctx, &domain.Credential{Person: "Ana", Secret: "s"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Credential{Person: "Ana", Secret: "t"}), domain.ErrConflict)

	c, err = repo.Get(ctx, "Ana")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "s", c.Secret)
}
