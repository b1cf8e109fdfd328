package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

type identityService struct {
	roster  *domain.Roster
	repo    ports.CredentialRepository
	ledger  ports.LedgerService
	tokens  ports.TokenService
	clock   *SessionClock
	timeout time.Duration
	logger  *slog.Logger
}

func NewIdentityService(repo ports.CredentialRepository, ledger ports.LedgerService, tokens ports.TokenService, roster *domain.Roster, clock *SessionClock, timeout time.Duration, logger *slog.Logger) ports.IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &identityService{
		roster:  roster,
		repo:    repo,
		ledger:  ledger,
		tokens:  tokens,
		clock:   clock,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *identityService) Lookup(ctx context.Context, person domain.Person) (*domain.Credential, error) {
	if !s.roster.Contains(person) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPerson, person)
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	credential, err := s.repo.Get(ctx, person)
	if err != nil {
		return nil, storeError("get credential", err)
	}
	return credential, nil
}

func (s *identityService) Enroll(ctx context.Context, person domain.Person, secret string) error {
	if blankSecret(secret) {
		return domain.ErrEmptySecret
	}

	existing, err := s.Lookup(ctx, person)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrAlreadyEnrolled
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.ErrSecretTooLong
		}
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	credential := &domain.Credential{
		Person:    person,
		Secret:    string(hash),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, credential); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrAlreadyEnrolled
		}
		return storeError("create credential", err)
	}

	s.logger.InfoContext(ctx, "person enrolled", "person", person)
	return nil
}

func (s *identityService) Verify(ctx context.Context, person domain.Person, secret string) (bool, error) {
	credential, err := s.Lookup(ctx, person)
	if err != nil {
		return false, err
	}
	if credential == nil {
		return false, nil
	}
	return secretMatches(credential.Secret, secret), nil
}

func (s *identityService) Login(ctx context.Context, name, secret string) (*domain.LoginOutcome, error) {
	person, ok := s.roster.Match(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPerson, name)
	}
	if blankSecret(secret) {
		return nil, domain.ErrEmptySecret
	}

	credential, err := s.Lookup(ctx, person)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return &domain.LoginOutcome{Status: domain.LoginNeedsEnrollment, Person: person}, nil
	}
	if !secretMatches(credential.Secret, secret) {
		s.logger.InfoContext(ctx, "login rejected", "person", person)
		return &domain.LoginOutcome{Status: domain.LoginInvalidCredential, Person: person}, nil
	}

	return s.authenticated(ctx, person)
}

func (s *identityService) EnrollAndLogin(ctx context.Context, name, secret string) (*domain.LoginOutcome, error) {
	person, ok := s.roster.Match(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPerson, name)
	}
	if err := s.Enroll(ctx, person, secret); err != nil {
		return nil, err
	}
	return s.authenticated(ctx, person)
}

func (s *identityService) authenticated(ctx context.Context, person domain.Person) (*domain.LoginOutcome, error) {
	token, err := s.tokens.Issue(person)
	if err != nil {
		return nil, err
	}

	voted, err := s.ledger.HasVotedToday(ctx, person)
	if err != nil {
		return nil, err
	}

	return &domain.LoginOutcome{
		Status:        domain.LoginAuthenticated,
		Person:        person,
		Token:         token,
		HasVotedToday: voted,
	}, nil
}

// secretMatches compares against a bcrypt hash, falling back to a constant
// time comparison for rows written before secrets were hashed.
func blankSecret(secret string) bool {
	return strings.TrimSpace(secret) == ""
}

func secretMatches(stored, candidate string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
