package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

func newUserService(mocks *repoMocks) *UserService {
	txm := &stubTxManager{repos: mocks.set()}
	return NewUserService(mocks.set(), txm, nil).WithClock(fixedClock)
}

func TestSetStateRejectsUnknownState(t *testing.T) {
	service := newUserService(newRepoMocks())

	if err := service.SetState(context.Background(), "cred-1", "pendiente"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for pendiente, got %v", err)
	}
	if err := service.SetState(context.Background(), "cred-1", "bogus"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for bogus, got %v", err)
	}
}

func TestSetStateUnknownUser(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byIDErr = repository.ErrNotFound

	service := newUserService(mocks)

	if err := service.SetState(context.Background(), "missing", "activo"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSetStateDeactivateClosesSessions(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byID = &domain.Credential{ID: "cred-1", State: domain.CredentialStateActive}
	mocks.sessions.closeAllResult = 1

	service := newUserService(mocks)

	if err := service.SetState(context.Background(), "cred-1", "inactivo"); err != nil {
		t.Fatalf("SetState returned error: %v", err)
	}

	if mocks.sessions.closeAllCalls != 1 {
		t.Fatalf("expected open sessions to be closed, got %d calls", mocks.sessions.closeAllCalls)
	}
	if mocks.credentials.updatedState != domain.CredentialStateInactive {
		t.Fatalf("expected inactivo, got %s", mocks.credentials.updatedState)
	}
}

func TestSetStateActivateKeepsSessions(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byID = &domain.Credential{ID: "cred-1", State: domain.CredentialStateInactive}

	service := newUserService(mocks)

	if err := service.SetState(context.Background(), "cred-1", "activo"); err != nil {
		t.Fatalf("SetState returned error: %v", err)
	}

	if mocks.sessions.closeAllCalls != 0 {
		t.Fatal("activation must not touch sessions")
	}
	if mocks.credentials.updatedState != domain.CredentialStateActive {
		t.Fatalf("expected activo, got %s", mocks.credentials.updatedState)
	}
}

func TestListPropagatesFailure(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.listErr = errUnexpected

	service := newUserService(mocks)

	if _, err := service.List(context.Background()); !errors.Is(err, errUnexpected) {
		t.Fatalf("expected wrapped repository failure, got %v", err)
	}
}
