package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"notetaker/apperr"
	"notetaker/model"

	"github.com/google/uuid"
)

// MemoryNoteRepo is a map-backed note store with the same contract as NoteRepo.
// It backs the test suites so they run without a live MongoDB.
type MemoryNoteRepo struct {
	mu    sync.RWMutex
	notes map[string]model.Note
}

func NewMemoryNoteRepo() *MemoryNoteRepo {
	return &MemoryNoteRepo{notes: make(map[string]model.Note)}
}

func (r *MemoryNoteRepo) Create(ctx context.Context, note *model.Note) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	r.notes[note.ID] = *note
	return note.ID, nil
}

func (r *MemoryNoteRepo) GetByID(ctx context.Context, noteID string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[noteID]
	if !ok {
		return nil, apperr.ErrNoteNotFound
	}
	return &note, nil
}

func (r *MemoryNoteRepo) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*model.Note, 0)
	for id := range r.notes {
		note := r.notes[id]
		if note.UserID == userID {
			notes = append(notes, &note)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (r *MemoryNoteRepo) Update(ctx context.Context, noteID string, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notes[noteID]
	if !ok {
		return apperr.ErrNoteNotFound
	}
	existing.Title = note.Title
	existing.Content = note.Content
	existing.Tags = note.Tags
	existing.UpdatedAt = note.UpdatedAt
	r.notes[noteID] = existing
	return nil
}

func (r *MemoryNoteRepo) Delete(ctx context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[noteID]; !ok {
		return apperr.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *MemoryNoteRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, note := range r.notes {
		if note.UserID == userID {
			delete(r.notes, id)
		}
	}
	return nil
}

func (r *MemoryNoteRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, note := range r.notes {
		if note.UserID == userID {
			count++
		}
	}
	return count, nil
}

// MemoryUserRepo is the map-backed counterpart of UserRepo.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User)}
}

func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.UserID] = *user
	return nil
}

func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.users {
		user := r.users[id]
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return apperr.ErrUserNotFound
	}
	user.Password = hashedPassword
	r.users[userID] = user
	return nil
}

func (r *MemoryUserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return apperr.ErrUserNotFound
	}
	user.TwoFactorSecret = secret
	user.TwoFactorEnabled = enabled
	r.users[userID] = user
	return nil
}

func (r *MemoryUserRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return apperr.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

// MemorySessionRepo is the map-backed counterpart of SessionRepo.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]model.Session)}
}

func (r *MemorySessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.SessionID] = *session
	return nil
}

func (r *MemorySessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	return &session, nil
}

func (r *MemorySessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[session.SessionID]
	if !ok {
		return apperr.ErrSessionNotFound
	}
	existing.LastActivityAt = session.LastActivityAt
	existing.IsActive = session.IsActive
	r.sessions[session.SessionID] = existing
	return nil
}

func (r *MemorySessionRepo) EndSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.IsActive = false
	r.sessions[sessionID] = session
	return nil
}

func (r *MemorySessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*model.Session, 0)
	now := time.Now()
	for id := range r.sessions {
		session := r.sessions[id]
		if session.UserID == userID && session.IsActive && session.ExpiresAt.After(now) {
			sessions = append(sessions, &session)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastActivityAt.After(sessions[j].LastActivityAt)
	})
	return sessions, nil
}

func (r *MemorySessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	sessions, err := r.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

func (r *MemorySessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var leastID string
	var leastActivity time.Time
	for id, session := range r.sessions {
		if session.UserID != userID || !session.IsActive {
			continue
		}
		if leastID == "" || session.LastActivityAt.Before(leastActivity) {
			leastID = id
			leastActivity = session.LastActivityAt
		}
	}
	if leastID != "" {
		session := r.sessions[leastID]
		session.IsActive = false
		r.sessions[leastID] = session
	}
	return nil
}

func (r *MemorySessionRepo) EndAllUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.UserID == userID && session.IsActive {
			session.IsActive = false
			r.sessions[id] = session
		}
	}
	return nil
}

func (r *MemorySessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}
