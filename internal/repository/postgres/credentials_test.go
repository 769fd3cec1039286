package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

func TestCredentialRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	createdAt := time.Now().UTC()
	credential := domain.Credential{
		ID:           "cred-1",
		Handle:       "magonz123",
		PasswordHash: "salt:hash",
		FirstName:    "Maria",
		LastName:     "Gonzalez",
		Email:        "maria@example.com",
		Phone:        "5551234",
		State:        domain.CredentialStatePending,
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs(
			credential.ID,
			credential.Handle,
			credential.PasswordHash,
			credential.FirstName,
			credential.LastName,
			credential.Email,
			credential.Phone,
			string(credential.State),
			credential.FailedAttempts,
			credential.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), credential); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), domain.Credential{ID: "cred-1"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_GetByHandle(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows(credentialColumns).AddRow(
		"cred-1", "magonz123", "salt:hash", "Maria", "Gonzalez",
		"maria@example.com", "5551234", "activo", 2, createdAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM credentials WHERE handle = \$1`).
		WithArgs("magonz123").
		WillReturnRows(rows)

	credential, err := repo.GetByHandle(context.Background(), "magonz123")
	if err != nil {
		t.Fatalf("GetByHandle returned error: %v", err)
	}
	if credential.ID != "cred-1" {
		t.Fatalf("expected cred-1, got %s", credential.ID)
	}
	if credential.State != domain.CredentialStateActive {
		t.Fatalf("expected state activo, got %s", credential.State)
	}
	if credential.FailedAttempts != 2 {
		t.Fatalf("expected 2 failed attempts, got %d", credential.FailedAttempts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_GetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM credentials WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(credentialColumns))

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_IncrementFailedAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	mock.ExpectQuery(`UPDATE credentials SET failed_attempts = failed_attempts \+ 1 WHERE id = \$1 RETURNING failed_attempts`).
		WithArgs("cred-1").
		WillReturnRows(pgxmock.NewRows([]string{"failed_attempts"}).AddRow(3))

	attempts, err := repo.IncrementFailedAttempts(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("IncrementFailedAttempts returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected counter 3, got %d", attempts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_ResetFailedAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	mock.ExpectExec(`UPDATE credentials SET failed_attempts = \$1 WHERE id = \$2`).
		WithArgs(0, "cred-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.ResetFailedAttempts(context.Background(), "cred-1"); err != nil {
		t.Fatalf("ResetFailedAttempts returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCredentialRepository_UpdateStateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewCredentialRepository(mock)

	mock.ExpectExec(`UPDATE credentials SET state = \$1 WHERE id = \$2`).
		WithArgs("inactivo", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateState(context.Background(), "missing", domain.CredentialStateInactive)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
