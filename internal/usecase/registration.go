package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
	applogger "github.com/alexfer060900/seguridadInformacion/internal/infra/logger"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/security"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

const handleAllocationAttempts = 3

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\d+$`)
)

// RegistrationService creates credentials and confirms activation codes.
type RegistrationService struct {
	repos          port.RepositorySet
	txm            port.TxManager
	gen            *security.Generator
	publisher      port.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
	passwordLength int
	codeLength     int
}

// NewRegistrationService builds the registration use case.
func NewRegistrationService(repos port.RepositorySet, txm port.TxManager, gen *security.Generator, publisher port.EventPublisher, logger *zap.Logger, passwordLength, codeLength int) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if passwordLength <= 0 {
		passwordLength = 12
	}
	if codeLength <= 0 {
		codeLength = 6
	}

	return &RegistrationService{
		repos:          repos,
		txm:            txm,
		gen:            gen,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		passwordLength: passwordLength,
		codeLength:     codeLength,
	}
}

// WithClock replaces the time source, primarily for tests.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// RegisterInput carries the personal data required to create a credential.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// RegisterResult returns the generated artifacts for a new credential.
type RegisterResult struct {
	CredentialID   string
	Handle         string
	Password       string
	ValidationCode string
}

// Register validates the input, derives a handle and initial password, and
// stores the pending credential together with its activation code.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Phone == "" {
		return nil, ErrMissingFields
	}
	if !phonePattern.MatchString(input.Phone) {
		return nil, ErrInvalidPhone
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, ErrInvalidEmail
	}

	if _, err := s.repos.Credentials.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	handle, err := s.allocateHandle(ctx, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	password, err := s.gen.Password(s.passwordLength)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := s.gen.NumericCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate validation code: %w", err)
	}

	now := s.now()
	credential := domain.Credential{
		ID:           uuid.NewString(),
		Handle:       handle,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		State:        domain.CredentialStatePending,
		CreatedAt:    now,
	}
	validation := domain.ValidationCode{
		ID:           uuid.NewString(),
		CredentialID: credential.ID,
		Code:         code,
		State:        domain.ValidationCodePending,
		IssuedAt:     now,
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if err := repos.Credentials.Create(ctx, credential); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("store credential: %w", err)
		}
		if err := repos.ValidationCodes.Create(ctx, validation); err != nil {
			return fmt.Errorf("store validation code: %w", err)
		}
		return repos.Audit.Append(ctx, domain.AuditEntry{
			ID:         uuid.NewString(),
			Actor:      domain.ActorSystem,
			Action:     "registro",
			Detail:     handle,
			OccurredAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishAccountRegistered(ctx, domain.AccountRegisteredEvent{
		CredentialID: credential.ID,
		Handle:       handle,
		Email:        input.Email,
		RegisteredAt: now,
	}); err != nil {
		s.logger.Warn("publish account registered event failed", zap.Error(err))
	}

	s.logger.Info("credential registered",
		zap.String("credential_id", credential.ID),
		zap.String("handle", handle),
		zap.String("email", applogger.MaskEmail(input.Email)),
	)

	return &RegisterResult{
		CredentialID:   credential.ID,
		Handle:         handle,
		Password:       password,
		ValidationCode: code,
	}, nil
}

// allocateHandle retries generation a few times to dodge suffix collisions.
func (s *RegistrationService) allocateHandle(ctx context.Context, firstName, lastName string) (string, error) {
	for attempt := 0; attempt < handleAllocationAttempts; attempt++ {
		handle, err := s.gen.Handle(firstName, lastName)
		if err != nil {
			return "", fmt.Errorf("generate handle: %w", err)
		}

		_, err = s.repos.Credentials.GetByHandle(ctx, handle)
		if errors.Is(err, repository.ErrNotFound) {
			return handle, nil
		}
		if err != nil {
			return "", fmt.Errorf("check handle uniqueness: %w", err)
		}
	}

	return "", fmt.Errorf("exhausted handle allocation attempts for %s %s", firstName, lastName)
}

// Confirm validates the activation code and flips the credential to active.
func (s *RegistrationService) Confirm(ctx context.Context, handle, code string) error {
	credential, err := s.repos.Credentials.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup credential: %w", err)
	}

	validation, err := s.repos.ValidationCodes.GetPendingByCredential(ctx, credential.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("lookup validation code: %w", err)
	}

	if validation.Code != code {
		return ErrCodeInvalid
	}

	now := s.now()
	if validation.Expired(now) {
		err := s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
			return repos.ValidationCodes.UpdateState(ctx, validation.ID, domain.ValidationCodeExpired)
		})
		if err != nil {
			return fmt.Errorf("expire validation code: %w", err)
		}
		return ErrCodeExpired
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context, repos port.RepositorySet) error {
		if err := repos.ValidationCodes.UpdateState(ctx, validation.ID, domain.ValidationCodeConfirmed); err != nil {
			return fmt.Errorf("confirm validation code: %w", err)
		}
		return repos.Credentials.UpdateState(ctx, credential.ID, domain.CredentialStateActive)
	})
	if err != nil {
		return err
	}

	if err := s.publisher.PublishAccountActivated(ctx, domain.AccountActivatedEvent{
		CredentialID: credential.ID,
		Handle:       credential.Handle,
		ActivatedAt:  now,
	}); err != nil {
		s.logger.Warn("publish account activated event failed", zap.Error(err))
	}

	s.logger.Info("account activated", zap.String("credential_id", credential.ID))

	return nil
}
