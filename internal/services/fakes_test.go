package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"eventease/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCredStore is an in-memory CredentialStore for tests.
type fakeCredStore struct {
	mu      sync.Mutex
	saved   *domain.PersistedSession
	saveErr error
	loadErr error
}

func (f *fakeCredStore) Save(ctx context.Context, ps *domain.PersistedSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ps
	f.saved = &cp
	return nil
}

func (f *fakeCredStore) Load(ctx context.Context) (*domain.PersistedSession, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		return nil, nil
	}
	cp := *f.saved
	return &cp, nil
}

func (f *fakeCredStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = nil
	return nil
}

// fakeAuthAPI implements domain.AuthAPI for tests.
type fakeAuthAPI struct {
	result *domain.AuthResult
	err    error
	calls  int
}

func (f *fakeAuthAPI) SignUp(ctx context.Context, profile domain.SignupProfile) (*domain.AuthResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAuthAPI) SignIn(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeEventAPI implements domain.EventAPI for tests.
type fakeEventAPI struct {
	mu           sync.Mutex
	byKey        map[string]*domain.Event
	list         []*domain.Event
	participants []*domain.Registration
	nextID       int

	getErr          error
	createErr       error
	updateErr       error
	deleteErr       error
	listErr         error
	participantsErr error

	getCalls          int
	participantsCalls int

	// onGet runs inside Get before returning, for mid-flight hooks.
	onGet func()
}

func newFakeEventAPI() *fakeEventAPI {
	return &fakeEventAPI{byKey: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventAPI) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeEventAPI) Get(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	if f.onGet != nil {
		f.onGet()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byKey[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventAPI) Create(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e := &domain.Event{
		ID:          fmt.Sprintf("ev-%d", f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
		Venue:       draft.Venue,
		Schedule:    draft.Schedule,
		Rules:       draft.Rules,
		Contact:     draft.Contact,
	}
	f.nextID++
	f.byKey[e.ID] = e
	return e, nil
}

func (f *fakeEventAPI) Update(ctx context.Context, id string, draft domain.EventDraft) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	e := &domain.Event{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
		Venue:       draft.Venue,
		Schedule:    draft.Schedule,
		Rules:       draft.Rules,
		Contact:     draft.Contact,
	}
	f.byKey[id] = e
	return e, nil
}

func (f *fakeEventAPI) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byKey, id)
	return nil
}

func (f *fakeEventAPI) Participants(ctx context.Context, id string) ([]*domain.Registration, error) {
	f.mu.Lock()
	f.participantsCalls++
	f.mu.Unlock()
	if f.participantsErr != nil {
		return nil, f.participantsErr
	}
	return f.participants, nil
}

// fakeRegistrationAPI implements domain.RegistrationAPI for tests.
type fakeRegistrationAPI struct {
	mu        sync.Mutex
	mine      []*domain.Registration
	mineErr   error
	regErr    error
	mineCalls int
	regCalls  int

	// onMine runs inside Mine before returning, for mid-flight hooks.
	onMine func()
}

func (f *fakeRegistrationAPI) Mine(ctx context.Context) ([]*domain.Registration, error) {
	f.mu.Lock()
	f.mineCalls++
	f.mu.Unlock()
	if f.onMine != nil {
		f.onMine()
	}
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return f.mine, nil
}

func (f *fakeRegistrationAPI) Register(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	f.mu.Lock()
	f.regCalls++
	f.mu.Unlock()
	if f.regErr != nil {
		return nil, f.regErr
	}
	cp := *reg
	cp.ID = "reg-1"
	f.mine = append(f.mine, &cp)
	return &cp, nil
}

// fakeNotifier records notices.
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	infos     []string
}

func (f *fakeNotifier) Success(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, msg)
}

func (f *fakeNotifier) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, msg)
}

func (f *fakeNotifier) Info(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, msg)
}

// fakeNavigator records navigations.
type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeNavigator) Go(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeNavigator) visited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// signedInManager returns a session manager already holding the given
// identity, plus its backing fakes.
func signedInManager(identity *domain.Identity) (*SessionManager, *fakeCredStore, *fakeNotifier) {
	store := &fakeCredStore{}
	notifier := &fakeNotifier{}
	api := &fakeAuthAPI{result: &domain.AuthResult{User: identity, AccessToken: "token-1"}}
	m := NewSessionManager(store, api, notifier, testLogger())
	if identity != nil {
		if _, err := m.SignIn(context.Background(), domain.Credentials{Email: identity.Email, Password: "pw"}); err != nil {
			panic(err)
		}
	}
	return m, store, notifier
}
