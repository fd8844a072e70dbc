package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PUZZ-INC/puzzle/internal/domain"
	"github.com/PUZZ-INC/puzzle/internal/events"
	util "github.com/PUZZ-INC/puzzle/pkg/util"
)

// stagedCode is the code every fake Stage call assigns, so tests know what
// the "emailed" code was.
const stagedCode = "1234"

type fakeAccountRepo struct {
	mu            sync.Mutex
	nextID        int64
	byID          map[int64]*domain.Account
	handles       map[string]int64
	verifications *fakeVerificationRepo
}

func newFakeAccountRepo(verifications *fakeVerificationRepo) *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:          map[int64]*domain.Account{},
		handles:       map[string]int64{},
		verifications: verifications,
	}
}

func (f *fakeAccountRepo) CreateFromVerification(_ context.Context, req *domain.VerificationRequest) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.verifications.consume(req.ID) {
		return nil, util.NewConflict("verification already consumed", nil)
	}
	if _, taken := f.handles[req.Handle]; taken {
		f.verifications.release(req.ID)
		return nil, util.NewDuplicateHandle(req.Handle)
	}
	req.Consumed = true

	f.nextID++
	account := &domain.Account{
		ID:           f.nextID,
		Handle:       req.Handle,
		PasswordHash: req.PasswordHash,
		Email:        req.Email,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.byID[account.ID] = account
	f.handles[account.Handle] = account.ID
	return cloneAccount(account), nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneAccount(account), nil
}

func (f *fakeAccountRepo) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.handles[handle]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneAccount(f.byID[id]), nil
}

func (f *fakeAccountRepo) HandleExists(_ context.Context, handle string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.handles[handle]
	return ok, nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, id int64, profile domain.Profile) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	account.ApplyProfile(profile)
	account.UpdatedAt = time.Now().UTC()
	return cloneAccount(account), nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	if a.BirthDate != nil {
		bd := *a.BirthDate
		clone.BirthDate = &bd
	}
	return &clone
}

type fakeVerificationRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.VerificationRequest
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{byID: map[int64]*domain.VerificationRequest{}}
}

func (f *fakeVerificationRepo) Stage(_ context.Context, email, handle, passwordHash string, ttl time.Duration) (*domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, req := range f.byID {
		if req.Email == email && !req.Consumed {
			delete(f.byID, id)
		}
	}

	f.nextID++
	now := time.Now().UTC()
	req := &domain.VerificationRequest{
		ID:           f.nextID,
		Email:        email,
		Code:         stagedCode,
		Handle:       handle,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	f.byID[req.ID] = req
	return cloneVerification(req), nil
}

func (f *fakeVerificationRepo) GetByID(_ context.Context, id int64) (*domain.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneVerification(req), nil
}

func (f *fakeVerificationRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// consume mirrors the guarded UPDATE ... WHERE consumed = FALSE: it succeeds
// exactly once per stored request.
func (f *fakeVerificationRepo) consume(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok || req.Consumed {
		return false
	}
	req.Consumed = true
	return true
}

// release undoes consume when the enclosing operation rolls back.
func (f *fakeVerificationRepo) release(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req, ok := f.byID[id]; ok {
		req.Consumed = false
	}
}

func (f *fakeVerificationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func cloneVerification(req *domain.VerificationRequest) *domain.VerificationRequest {
	clone := *req
	return &clone
}

type sentMail struct {
	kind   string
	email  string
	code   string
	handle string
}

type fakeMailer struct {
	mu             sync.Mutex
	verificationOK bool
	welcomeOK      bool
	sent           []sentMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{verificationOK: true, welcomeOK: true}
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, email, code, handle string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.verificationOK {
		return false
	}
	f.sent = append(f.sent, sentMail{kind: "verification", email: email, code: code, handle: handle})
	return true
}

func (f *fakeMailer) SendWelcome(_ context.Context, email, handle string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.welcomeOK {
		return false
	}
	f.sent = append(f.sent, sentMail{kind: "welcome", email: email, handle: handle})
	return true
}

func (f *fakeMailer) sentOfKind(kind string) []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMail
	for _, m := range f.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// recordingDispatcher captures published events without any subscribers.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeSink records telemetry writes and can simulate sink failure.
type fakeSink struct {
	mu     sync.Mutex
	err    error
	logged []events.Event
}

func (f *fakeSink) LogEvent(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged = append(f.logged, event)
	return f.err
}
