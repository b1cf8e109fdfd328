package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/queridometro/internal/core/domain"
)

func TestLogin_NeedsEnrollmentThenAuthenticated(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "João")

	outcome, err := e.identity.Login(ctx, "joao", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginNeedsEnrollment, outcome.Status)
	assert.Equal(t, domain.Person("João"), outcome.Person)
	assert.Empty(t, outcome.Token)

	outcome, err = e.identity.EnrollAndLogin(ctx, "  JOÃO ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginAuthenticated, outcome.Status)
	assert.False(t, outcome.HasVotedToday)

	person, err := e.tokens.Parse(outcome.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Person("João"), person)

	outcome, err = e.identity.Login(ctx, "João", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginAuthenticated, outcome.Status)
}

func TestLogin_WrongSecret(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	require.NoError(t, e.identity.Enroll(ctx, "Ana", "Secret"))

	outcome, err := e.identity.Login(ctx, "Ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginInvalidCredential, outcome.Status)
	assert.Empty(t, outcome.Token)
}

func TestLogin_ReportsHasVotedToday(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	require.NoError(t, e.identity.Enroll(ctx, "Ana", "pw"))
	e.submit(t, "Ana")

	outcome, err := e.identity.Login(ctx, "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginAuthenticated, outcome.Status)
	assert.True(t, outcome.HasVotedToday)
}

func TestLogin_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	_, err := e.identity.Login(ctx, "Zed", "pw")
	assert.ErrorIs(t, err, domain.ErrUnknownPerson)

	for _, secret := range []string{"", " ", "\t\n"} {
		_, err = e.identity.Login(ctx, "Ana", secret)
		assert.ErrorIs(t, err, domain.ErrEmptySecret, "secret %q", secret)
	}
}

func TestEnroll_Rejections(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	assert.ErrorIs(t, e.identity.Enroll(ctx, "Ana", "   "), domain.ErrEmptySecret)
	assert.ErrorIs(t, e.identity.Enroll(ctx, "ana", "pw"), domain.ErrUnknownPerson)
	assert.ErrorIs(t, e.identity.Enroll(ctx, "Ana", strings.Repeat("x", 80)), domain.ErrSecretTooLong)

	require.NoError(t, e.identity.Enroll(ctx, "Ana", "pw"))
	err := e.identity.Enroll(ctx, "Ana", "other")
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))

	ok, err := e.identity.Verify(ctx, "Ana", "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnroll_StoresHash(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	require.NoError(t, e.identity.Enroll(ctx, "Ana", "pw"))

	credential, err := e.identity.Lookup(ctx, "Ana")
	require.NoError(t, err)
	require.NotNil(t, credential)
	assert.NotEqual(t, "pw", credential.Secret)
	assert.Equal(t, e.clock.Now(), credential.CreatedAt)
}

func TestVerify_LegacyPlaintext(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 5, "Ana", "Bea", "Cid")

	require.NoError(t, e.credentials.Create(ctx, &domain.Credential{Person: "Bea", Secret: "legacy"}))

	ok, err := e.identity.Verify(ctx, "Bea", "legacy")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.identity.Verify(ctx, "Bea", "Legacy")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.identity.Verify(ctx, "Cid", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}
