package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	_ SessionStore = (*TestStore)(nil)
	_ AdminStore   = (*TestStore)(nil)
	_ TxRunner     = (*TestStore)(nil)
)

// TestStore is an in-memory admin and session store with rollback support,
// used by unit tests and local runs without Postgres.
type TestStore struct {
	mutex    sync.Mutex
	txMutex  sync.Mutex
	admins   map[int]*Admin
	sessions map[string]*Session
	nextID   int

	// set to make the matching operation fail
	ErrCreateSession   error
	ErrFindSession     error
	ErrDeleteSession   error
	ErrFindAdmin       error
	ErrUpdateLastLogin error
}

func NewTestStore() *TestStore {
	return &TestStore{
		admins:   map[int]*Admin{},
		sessions: map[string]*Session{},
	}
}

type testTxCtxKey struct{}

func (s *TestStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(testTxCtxKey{}) != nil {
		return fn(ctx)
	}

	s.txMutex.Lock()
	defer s.txMutex.Unlock()

	s.mutex.Lock()
	adminsSnapshot := make(map[int]Admin, len(s.admins))
	for id, a := range s.admins {
		adminsSnapshot[id] = *a
	}
	sessionsSnapshot := make(map[string]*Session, len(s.sessions))
	for token, sess := range s.sessions {
		sessionsSnapshot[token] = sess
	}
	s.mutex.Unlock()

	if err := fn(context.WithValue(ctx, testTxCtxKey{}, true)); err != nil {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.admins = make(map[int]*Admin, len(adminsSnapshot))
		for id, a := range adminsSnapshot {
			a := a
			s.admins[id] = &a
		}
		s.sessions = sessionsSnapshot
		return err
	}
	return nil
}

func (s *TestStore) SessionsCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// AddSession stores a session as is, bypassing the issuer.
func (s *TestStore) AddSession(session *Session) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.nextID++
	session.ID = s.nextID
	s.sessions[session.Token] = session
}

func (s *TestStore) CreateAdmin(_ context.Context, admin *Admin) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, a := range s.admins {
		if a.Username == admin.Username {
			return ErrAdminExists
		}
	}

	s.nextID++
	admin.ID = s.nextID
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	stored := *admin
	s.admins[admin.ID] = &stored
	return nil
}

func (s *TestStore) FindByUsername(_ context.Context, username string) (*Admin, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrFindAdmin != nil {
		return nil, s.ErrFindAdmin
	}
	for _, a := range s.admins {
		if a.Username == username {
			found := *a
			return &found, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (s *TestStore) FindByID(_ context.Context, id int) (*Admin, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrFindAdmin != nil {
		return nil, s.ErrFindAdmin
	}
	a, ok := s.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	found := *a
	return &found, nil
}

func (s *TestStore) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrUpdateLastLogin != nil {
		return s.ErrUpdateLastLogin
	}
	a, ok := s.admins[id]
	if !ok {
		return ErrAdminNotFound
	}
	lastLogin := at.UTC()
	a.LastLogin = &lastLogin
	return nil
}

// DeleteAdmin removes an admin and, like the FK cascade, its sessions.
func (s *TestStore) DeleteAdmin(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.admins, id)
	for token, sess := range s.sessions {
		if sess.AdminID == id {
			delete(s.sessions, token)
		}
	}
}

func (s *TestStore) Create(_ context.Context, adminID int, token string, expiresAt time.Time) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrCreateSession != nil {
		return nil, s.ErrCreateSession
	}
	if _, ok := s.admins[adminID]; !ok {
		return nil, ErrAdminNotFound
	}
	if _, ok := s.sessions[token]; ok {
		return nil, errors.New("duplicate session token")
	}

	s.nextID++
	session := &Session{
		ID:        s.nextID,
		AdminID:   adminID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[token] = session
	return session, nil
}

func (s *TestStore) FindByToken(_ context.Context, token string) (*Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrFindSession != nil {
		return nil, s.ErrFindSession
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	found := *session
	return &found, nil
}

func (s *TestStore) Delete(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ErrDeleteSession != nil {
		return s.ErrDeleteSession
	}
	delete(s.sessions, token)
	return nil
}

func (s *TestStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var deleted int64
	for token, session := range s.sessions {
		if session.ExpiredAt(now) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}
