// Package filestore keeps interview data in JSON files under one directory.
// It suits single-instance deployments; all writes go through one mutex and
// each file is replaced atomically.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

const (
	usersFile     = "users.json"
	sessionsFile  = "interviews.json"
	responsesFile = "responses.json"
	reportsFile   = "reports.json"
)

// Store is the shared file-backed state. Use its repository accessors.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open prepares dir for use, creating it when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("op=filestore.open: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Ping checks the data directory is writable.
func (s *Store) Ping(_ domain.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("op=filestore.ping: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Sessions returns the session repository.
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

// Responses returns the response repository.
func (s *Store) Responses() *ResponseRepo { return &ResponseRepo{s: s} }

// Reports returns the report repository.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// Users returns the user repository.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// read loads a JSON array file; a missing file is an empty collection.
func read[T any](s *Store, name string) ([]T, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}
	var out []T
	if len(b) == 0 {
		return []T{}, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

// write replaces a collection file via a temp file and rename.
func write[T any](s *Store, name string, items []T) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.dir, name))
}

// SessionRepo implements domain.SessionRepository.
type SessionRepo struct{ s *Store }

// Create appends a session and returns its id.
func (r *SessionRepo) Create(_ domain.Context, sess domain.Session) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Session](r.s, sessionsFile)
	if err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	all = append(all, sess)
	if err := write(r.s, sessionsFile, all); err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return sess.ID, nil
}

// Get loads a session by id.
func (r *SessionRepo) Get(_ domain.Context, id string) (domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Session](r.s, sessionsFile)
	if err != nil {
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	for _, sess := range all {
		if sess.ID == id {
			return sess, nil
		}
	}
	return domain.Session{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
}

// Complete marks a session completed with its final score.
func (r *SessionRepo) Complete(_ domain.Context, id string, totalScore float64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Session](r.s, sessionsFile)
	if err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	for i := range all {
		if all[i].ID == id {
			all[i].Status = domain.SessionCompleted
			all[i].TotalScore = &totalScore
			all[i].CompletedAt = &at
			if err := write(r.s, sessionsFile, all); err != nil {
				return fmt.Errorf("op=session.complete: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("op=session.complete: %w", domain.ErrNotFound)
}

// ResponseRepo implements domain.ResponseRepository.
type ResponseRepo struct{ s *Store }

// FindOne loads the response for a session and question.
func (r *ResponseRepo) FindOne(_ domain.Context, sessionID, questionID string) (domain.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Response](r.s, responsesFile)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=response.find: %w", err)
	}
	for _, resp := range all {
		if resp.SessionID == sessionID && resp.QuestionID == questionID {
			return resp, nil
		}
	}
	return domain.Response{}, fmt.Errorf("op=response.find: %w", domain.ErrNotFound)
}

// Upsert inserts resp or replaces the stored response for the same
// (session, question), keeping the stored id and CreatedAt.
func (r *ResponseRepo) Upsert(_ domain.Context, resp domain.Response) (domain.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Response](r.s, responsesFile)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=response.upsert: %w", err)
	}
	replaced := false
	for i := range all {
		if all[i].SessionID == resp.SessionID && all[i].QuestionID == resp.QuestionID {
			resp.ID = all[i].ID
			resp.CreatedAt = all[i].CreatedAt
			all[i] = resp
			replaced = true
			break
		}
	}
	if !replaced {
		if resp.ID == "" {
			resp.ID = uuid.New().String()
		}
		all = append(all, resp)
	}
	if err := write(r.s, responsesFile, all); err != nil {
		return domain.Response{}, fmt.Errorf("op=response.upsert: %w", err)
	}
	return resp, nil
}

// ListBySession returns all responses of a session in storage order.
func (r *ResponseRepo) ListBySession(_ domain.Context, sessionID string) ([]domain.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Response](r.s, responsesFile)
	if err != nil {
		return nil, fmt.Errorf("op=response.list: %w", err)
	}
	out := []domain.Response{}
	for _, resp := range all {
		if resp.SessionID == sessionID {
			out = append(out, resp)
		}
	}
	return out, nil
}

// ReportRepo implements domain.ReportRepository.
type ReportRepo struct{ s *Store }

func (r *ReportRepo) find(match func(domain.Report) bool, op string) (domain.Report, error) {
	all, err := read[domain.Report](r.s, reportsFile)
	if err != nil {
		return domain.Report{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, rep := range all {
		if match(rep) {
			return rep, nil
		}
	}
	return domain.Report{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

// GetBySession loads the report of a session.
func (r *ReportRepo) GetBySession(_ domain.Context, sessionID string) (domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(rep domain.Report) bool { return rep.SessionID == sessionID }, "op=report.get_by_session")
}

// Get loads a report by id.
func (r *ReportRepo) Get(_ domain.Context, id string) (domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(rep domain.Report) bool { return rep.ID == id }, "op=report.get")
}

// Create stores rep unless the session already has a report, which is then returned.
func (r *ReportRepo) Create(_ domain.Context, rep domain.Report) (domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Report](r.s, reportsFile)
	if err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	for _, cur := range all {
		if cur.SessionID == rep.SessionID {
			return cur, nil
		}
	}
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	all = append(all, rep)
	if err := write(r.s, reportsFile, all); err != nil {
		return domain.Report{}, fmt.Errorf("op=report.create: %w", err)
	}
	return rep, nil
}

// ListByUser returns the user's reports in storage order.
func (r *ReportRepo) ListByUser(_ domain.Context, userID string) ([]domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[domain.Report](r.s, reportsFile)
	if err != nil {
		return nil, fmt.Errorf("op=report.list: %w", err)
	}
	out := []domain.Report{}
	for _, rep := range all {
		if rep.UserID == userID {
			out = append(out, rep)
		}
	}
	return out, nil
}

// userRecord stores the password hash, which domain.User hides from JSON.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

// UserRepo implements domain.UserRepository.
type UserRepo struct{ s *Store }

// Create appends a user. A duplicate email is ErrConflict.
func (r *UserRepo) Create(_ domain.Context, u domain.User) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[userRecord](r.s, usersFile)
	if err != nil {
		return "", fmt.Errorf("op=user.create: %w", err)
	}
	for _, cur := range all {
		if cur.Email == u.Email {
			return "", fmt.Errorf("op=user.create: %w: email already registered", domain.ErrConflict)
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	all = append(all, userRecord{User: u, PasswordHash: u.PasswordHash})
	if err := write(r.s, usersFile, all); err != nil {
		return "", fmt.Errorf("op=user.create: %w", err)
	}
	return u.ID, nil
}

func (r *UserRepo) find(match func(userRecord) bool, op string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := read[userRecord](r.s, usersFile)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, rec := range all {
		if match(rec) {
			u := rec.User
			u.PasswordHash = rec.PasswordHash
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}

// GetByEmail loads a user by email.
func (r *UserRepo) GetByEmail(_ domain.Context, email string) (domain.User, error) {
	return r.find(func(u userRecord) bool { return u.Email == email }, "op=user.get_by_email")
}

// Get loads a user by id.
func (r *UserRepo) Get(_ domain.Context, id string) (domain.User, error) {
	return r.find(func(u userRecord) bool { return u.ID == id }, "op=user.get")
}
