package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/infra/security"
	"github.com/alexfer060900/seguridadInformacion/internal/repository"
)

const strongNewPassword = "Nuev0!Rumbo-Austral7"

func newRecoveryService(mocks *repoMocks, publisher *recordingPublisher) *RecoveryService {
	gen := security.NewGenerator().WithSource(bytes.NewReader(make([]byte, 16)))
	txm := &stubTxManager{repos: mocks.set()}
	return NewRecoveryService(mocks.set(), txm, gen, security.DefaultPasswordValidator(), publisher, nil, 6).WithClock(fixedClock)
}

func TestRecoveryRequestUnknownEmail(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.emailErr = repository.ErrNotFound
	publisher := &recordingPublisher{}

	service := newRecoveryService(mocks, publisher)

	issue, err := service.Request(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if issue.Issued {
		t.Fatal("expected no issuance for unknown email")
	}
	if mocks.recoveries.createCalls != 0 {
		t.Fatal("expected no recovery request stored")
	}
	if len(publisher.recovery) != 0 {
		t.Fatal("expected no event for unknown email")
	}
}

func TestRecoveryRequestSuccess(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byEmail = &domain.Credential{ID: "cred-1", Email: "maria@example.com"}
	publisher := &recordingPublisher{}

	service := newRecoveryService(mocks, publisher)

	issue, err := service.Request(context.Background(), "maria@example.com")
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if !issue.Issued {
		t.Fatal("expected issuance for known email")
	}
	if len(issue.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", issue.Code)
	}

	if mocks.recoveries.createCalls != 1 {
		t.Fatalf("expected one stored request, got %d", mocks.recoveries.createCalls)
	}
	stored := mocks.recoveries.created
	if stored.State != domain.RecoveryPending {
		t.Fatalf("expected pendiente, got %s", stored.State)
	}
	wantExpiry := fixedClock().AddDate(0, 0, 1)
	if !stored.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, stored.ExpiresAt)
	}

	if len(publisher.recovery) != 1 {
		t.Fatalf("expected one recovery event, got %d", len(publisher.recovery))
	}
}

func TestRedeemSuccess(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byHandle = &domain.Credential{ID: "cred-1", Handle: "magonz123"}
	mocks.recoveries.pending = &domain.RecoveryRequest{
		ID:        "rec-1",
		Code:      "654321",
		State:     domain.RecoveryPending,
		IssuedAt:  fixedClock(),
		ExpiresAt: fixedClock().AddDate(0, 0, 1),
	}
	publisher := &recordingPublisher{}

	service := newRecoveryService(mocks, publisher)

	if err := service.Redeem(context.Background(), "magonz123", "654321", strongNewPassword); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}

	if mocks.credentials.updateHashCalls != 1 {
		t.Fatalf("expected one hash update, got %d", mocks.credentials.updateHashCalls)
	}
	match, err := security.VerifyPassword(strongNewPassword, mocks.credentials.updatedHash)
	if err != nil || !match {
		t.Fatalf("stored hash does not verify the new password (match=%v err=%v)", match, err)
	}

	if mocks.recoveries.updatedState != domain.RecoveryUsed {
		t.Fatalf("expected usado, got %s", mocks.recoveries.updatedState)
	}
	if mocks.credentials.resetCalls != 1 {
		t.Fatal("expected redemption to clear the failure counter")
	}
	if len(publisher.reset) != 1 {
		t.Fatalf("expected one reset event, got %d", len(publisher.reset))
	}
}

func TestRedeemWrongCode(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byHandle = &domain.Credential{ID: "cred-1", Handle: "magonz123"}
	mocks.recoveries.pending = &domain.RecoveryRequest{
		ID:        "rec-1",
		Code:      "654321",
		ExpiresAt: fixedClock().AddDate(0, 0, 1),
	}

	service := newRecoveryService(mocks, &recordingPublisher{})

	err := service.Redeem(context.Background(), "magonz123", "000000", strongNewPassword)
	if !errors.Is(err, ErrRecoveryInvalid) {
		t.Fatalf("expected ErrRecoveryInvalid, got %v", err)
	}
	if mocks.credentials.updateHashCalls != 0 {
		t.Fatal("expected no password change on mismatch")
	}
}

func TestRedeemExpired(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byHandle = &domain.Credential{ID: "cred-1", Handle: "magonz123"}
	mocks.recoveries.pending = &domain.RecoveryRequest{
		ID:        "rec-1",
		Code:      "654321",
		IssuedAt:  fixedClock().AddDate(0, 0, -3),
		ExpiresAt: fixedClock().AddDate(0, 0, -2),
	}

	service := newRecoveryService(mocks, &recordingPublisher{})

	err := service.Redeem(context.Background(), "magonz123", "654321", strongNewPassword)
	if !errors.Is(err, ErrRecoveryExpired) {
		t.Fatalf("expected ErrRecoveryExpired, got %v", err)
	}
	if mocks.recoveries.updatedState != domain.RecoveryExpired {
		t.Fatalf("expected expirado, got %s", mocks.recoveries.updatedState)
	}
	if mocks.credentials.updateHashCalls != 0 {
		t.Fatal("expected no password change on expiry")
	}
}

func TestRedeemWeakPassword(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byHandle = &domain.Credential{ID: "cred-1", Handle: "magonz123"}
	mocks.recoveries.pending = &domain.RecoveryRequest{
		ID:        "rec-1",
		Code:      "654321",
		ExpiresAt: fixedClock().AddDate(0, 0, 1),
	}

	service := newRecoveryService(mocks, &recordingPublisher{})

	err := service.Redeem(context.Background(), "magonz123", "654321", "abc123")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if mocks.credentials.updateHashCalls != 0 {
		t.Fatal("expected no password change for weak replacement")
	}
}

func TestRedeemNoPendingRequest(t *testing.T) {
	mocks := newRepoMocks()
	mocks.credentials.byHandle = &domain.Credential{ID: "cred-1", Handle: "magonz123"}
	mocks.recoveries.pendingErr = repository.ErrNotFound

	service := newRecoveryService(mocks, &recordingPublisher{})

	err := service.Redeem(context.Background(), "magonz123", "654321", strongNewPassword)
	if !errors.Is(err, ErrRecoveryInvalid) {
		t.Fatalf("expected ErrRecoveryInvalid, got %v", err)
	}
}
