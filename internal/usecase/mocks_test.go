package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/alexfer060900/seguridadInformacion/internal/core/domain"
	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

type mockCredentialRepository struct {
	createErr   error
	createCalls int
	created     domain.Credential

	byID      *domain.Credential
	byIDErr   error
	byHandle  *domain.Credential
	handleErr error
	byEmail   *domain.Credential
	emailErr  error

	listResult []domain.Credential
	listErr    error

	updateStateCalls int
	updateStateErr   error
	updatedState     domain.CredentialState

	updateHashCalls int
	updateHashErr   error
	updatedHash     string

	incrementResult int
	incrementErr    error
	incrementCalls  int

	resetCalls int
	resetErr   error
}

func (m *mockCredentialRepository) Create(_ context.Context, credential domain.Credential) error {
	m.createCalls++
	m.created = credential
	return m.createErr
}

func (m *mockCredentialRepository) GetByID(context.Context, string) (*domain.Credential, error) {
	if m.byID != nil {
		copy := *m.byID
		return &copy, m.byIDErr
	}
	return nil, m.byIDErr
}

func (m *mockCredentialRepository) GetByHandle(context.Context, string) (*domain.Credential, error) {
	if m.byHandle != nil {
		copy := *m.byHandle
		return &copy, m.handleErr
	}
	return nil, m.handleErr
}

func (m *mockCredentialRepository) GetByEmail(context.Context, string) (*domain.Credential, error) {
	if m.byEmail != nil {
		copy := *m.byEmail
		return &copy, m.emailErr
	}
	return nil, m.emailErr
}

func (m *mockCredentialRepository) List(context.Context) ([]domain.Credential, error) {
	return m.listResult, m.listErr
}

func (m *mockCredentialRepository) UpdateState(_ context.Context, _ string, state domain.CredentialState) error {
	m.updateStateCalls++
	m.updatedState = state
	return m.updateStateErr
}

func (m *mockCredentialRepository) UpdatePasswordHash(_ context.Context, _ string, hash string) error {
	m.updateHashCalls++
	m.updatedHash = hash
	return m.updateHashErr
}

func (m *mockCredentialRepository) IncrementFailedAttempts(context.Context, string) (int, error) {
	m.incrementCalls++
	return m.incrementResult, m.incrementErr
}

func (m *mockCredentialRepository) ResetFailedAttempts(context.Context, string) error {
	m.resetCalls++
	return m.resetErr
}

type mockValidationCodeRepository struct {
	createCalls int
	createErr   error
	created     domain.ValidationCode

	pending    *domain.ValidationCode
	pendingErr error

	updateStateCalls int
	updateStateErr   error
	updatedState     domain.ValidationCodeState
}

func (m *mockValidationCodeRepository) Create(_ context.Context, code domain.ValidationCode) error {
	m.createCalls++
	m.created = code
	return m.createErr
}

func (m *mockValidationCodeRepository) GetPendingByCredential(context.Context, string) (*domain.ValidationCode, error) {
	if m.pending != nil {
		copy := *m.pending
		return &copy, m.pendingErr
	}
	return nil, m.pendingErr
}

func (m *mockValidationCodeRepository) UpdateState(_ context.Context, _ string, state domain.ValidationCodeState) error {
	m.updateStateCalls++
	m.updatedState = state
	return m.updateStateErr
}

type mockSessionRepository struct {
	createErr   error
	createCalls int
	created     domain.Session

	active    *domain.Session
	activeErr error

	closeResult *domain.Session
	closeErr    error
	closeCalls  int

	closeAllResult int
	closeAllErr    error
	closeAllCalls  int

	listResult []domain.ActiveSession
	listErr    error
}

func (m *mockSessionRepository) Create(_ context.Context, session domain.Session) error {
	m.createCalls++
	m.created = session
	return m.createErr
}

func (m *mockSessionRepository) GetActiveByCredential(context.Context, string) (*domain.Session, error) {
	if m.active != nil {
		copy := *m.active
		return &copy, m.activeErr
	}
	return nil, m.activeErr
}

func (m *mockSessionRepository) Close(context.Context, string, time.Time) (*domain.Session, error) {
	m.closeCalls++
	if m.closeResult != nil {
		copy := *m.closeResult
		return &copy, m.closeErr
	}
	return nil, m.closeErr
}

func (m *mockSessionRepository) CloseAllForCredential(context.Context, string, time.Time) (int, error) {
	m.closeAllCalls++
	return m.closeAllResult, m.closeAllErr
}

func (m *mockSessionRepository) ListActive(context.Context) ([]domain.ActiveSession, error) {
	return m.listResult, m.listErr
}

type mockRecoveryRepository struct {
	createCalls int
	createErr   error
	created     domain.RecoveryRequest

	pending    *domain.RecoveryRequest
	pendingErr error

	updateStateCalls int
	updateStateErr   error
	updatedState     domain.RecoveryState
}

func (m *mockRecoveryRepository) Create(_ context.Context, request domain.RecoveryRequest) error {
	m.createCalls++
	m.created = request
	return m.createErr
}

func (m *mockRecoveryRepository) GetPendingByCredential(context.Context, string) (*domain.RecoveryRequest, error) {
	if m.pending != nil {
		copy := *m.pending
		return &copy, m.pendingErr
	}
	return nil, m.pendingErr
}

func (m *mockRecoveryRepository) UpdateState(_ context.Context, _ string, state domain.RecoveryState) error {
	m.updateStateCalls++
	m.updatedState = state
	return m.updateStateErr
}

type mockAccessLogRepository struct {
	entries   []domain.AccessLogEntry
	appendErr error

	latestResult []domain.AccessLogEntry
	latestErr    error
}

func (m *mockAccessLogRepository) Append(_ context.Context, entry domain.AccessLogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAccessLogRepository) Latest(context.Context, int) ([]domain.AccessLogEntry, error) {
	return m.latestResult, m.latestErr
}

type mockAuditRepository struct {
	entries   []domain.AuditEntry
	appendErr error
}

func (m *mockAuditRepository) Append(_ context.Context, entry domain.AuditEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

// stubTxManager hands the same repository set back to the callback, so the
// mocks observe writes that run inside transactions.
type stubTxManager struct {
	repos port.RepositorySet
	err   error
	calls int
}

func (m *stubTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.RepositorySet) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx, m.repos)
}

type fakeSecondFactorStore struct {
	issued     map[string]string
	issueErr   error
	claimOK    bool
	claimErr   error
	claimCalls int
}

func (f *fakeSecondFactorStore) Issue(_ context.Context, credentialID, code string) error {
	if f.issueErr != nil {
		return f.issueErr
	}
	if f.issued == nil {
		f.issued = make(map[string]string)
	}
	f.issued[credentialID] = code
	return nil
}

func (f *fakeSecondFactorStore) Claim(context.Context, string, string) (bool, error) {
	f.claimCalls++
	return f.claimOK, f.claimErr
}

type recordingPublisher struct {
	registered []domain.AccountRegisteredEvent
	activated  []domain.AccountActivatedEvent
	blocked    []domain.LoginBlockedEvent
	opened     []domain.SessionOpenedEvent
	closed     []domain.SessionClosedEvent
	recovery   []domain.RecoveryRequestedEvent
	reset      []domain.PasswordResetEvent
	unblocked  []domain.AccountUnblockedEvent
	err        error
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, e domain.AccountRegisteredEvent) error {
	p.registered = append(p.registered, e)
	return p.err
}

func (p *recordingPublisher) PublishAccountActivated(_ context.Context, e domain.AccountActivatedEvent) error {
	p.activated = append(p.activated, e)
	return p.err
}

func (p *recordingPublisher) PublishLoginBlocked(_ context.Context, e domain.LoginBlockedEvent) error {
	p.blocked = append(p.blocked, e)
	return p.err
}

func (p *recordingPublisher) PublishSessionOpened(_ context.Context, e domain.SessionOpenedEvent) error {
	p.opened = append(p.opened, e)
	return p.err
}

func (p *recordingPublisher) PublishSessionClosed(_ context.Context, e domain.SessionClosedEvent) error {
	p.closed = append(p.closed, e)
	return p.err
}

func (p *recordingPublisher) PublishRecoveryRequested(_ context.Context, e domain.RecoveryRequestedEvent) error {
	p.recovery = append(p.recovery, e)
	return p.err
}

func (p *recordingPublisher) PublishPasswordReset(_ context.Context, e domain.PasswordResetEvent) error {
	p.reset = append(p.reset, e)
	return p.err
}

func (p *recordingPublisher) PublishAccountUnblocked(_ context.Context, e domain.AccountUnblockedEvent) error {
	p.unblocked = append(p.unblocked, e)
	return p.err
}

type repoMocks struct {
	credentials *mockCredentialRepository
	validation  *mockValidationCodeRepository
	sessions    *mockSessionRepository
	recoveries  *mockRecoveryRepository
	accessLog   *mockAccessLogRepository
	audit       *mockAuditRepository
}

func newRepoMocks() *repoMocks {
	return &repoMocks{
		credentials: &mockCredentialRepository{},
		validation:  &mockValidationCodeRepository{},
		sessions:    &mockSessionRepository{},
		recoveries:  &mockRecoveryRepository{},
		accessLog:   &mockAccessLogRepository{},
		audit:       &mockAuditRepository{},
	}
}

func (m *repoMocks) set() port.RepositorySet {
	return port.RepositorySet{
		Credentials:     m.credentials,
		ValidationCodes: m.validation,
		Sessions:        m.sessions,
		Recoveries:      m.recoveries,
		AccessLog:       m.accessLog,
		Audit:           m.audit,
	}
}

var errUnexpected = errors.New("unexpected repository failure")
