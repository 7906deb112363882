// Package localstore provides a JSON-file implementation of the
// storage interfaces.
//
// The file holds a flat string-to-string map, mirroring the key/value
// contract of the original client-side store:
//
//	isAuthenticated   "true" | absent
//	user              JSON UserSnapshot
//	sessionToken      signed session token (extension)
//	registeredUsers   JSON array of User
//	isPremium         "true" | "false"
//	habitLimit        "5" | "unlimited"
//	habits_<userId>   JSON array of Habit
//	pageViews         JSON map path -> count
//
// Every operation re-reads the file and rewrites it atomically via a
// temp file and rename. Each key is its own atomic unit; there are no
// multi-key transactions.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/mmynk/habitkit/internal/models"
	"github.com/mmynk/habitkit/internal/storage"
)

// Storage key names. These are normative: existing data written by the
// original client is readable as-is.
const (
	keyAuthenticated = "isAuthenticated"
	keyUser          = "user"
	keyToken         = "sessionToken"
	keyRegistry      = "registeredUsers"
	keyPremium       = "isPremium"
	keyHabitLimit    = "habitLimit"
	keyPageViews     = "pageViews"
	habitKeyPrefix   = "habits_"
)

// habitLimit values cached at login/upgrade.
const (
	limitFree      = "5"
	limitUnlimited = "unlimited"
)

// Ensure LocalStore implements storage.Store
var _ storage.Store = (*LocalStore)(nil)

// LocalStore implements storage.Store over a single JSON file.
type LocalStore struct {
	mu   sync.Mutex
	path string
}

// New creates a LocalStore backed by the file at path. The parent
// directory is created if needed; the file itself is created lazily on
// first write.
func New(path string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &LocalStore{path: path}, nil
}

// Close implements storage.Store. The file handle is not held open, so
// there is nothing to release.
func (s *LocalStore) Close() error { return nil }

// load reads the whole key/value map from disk. A missing file is an
// empty store.
func (s *LocalStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	kv := map[string]string{}
	if len(data) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("failed to decode store: %w", err)
	}
	return kv, nil
}

// save writes the map back atomically: temp file in the same directory,
// then rename over the original.
func (s *LocalStore) save(kv map[string]string) error {
	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".habitkit-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// update applies fn to the current map under the lock and persists the
// result.
func (s *LocalStore) update(fn func(kv map[string]string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(kv); err != nil {
		return err
	}
	return s.save(kv)
}

// --- UserStore ---

func (s *LocalStore) readRegistry(kv map[string]string) ([]models.User, error) {
	raw, ok := kv[keyRegistry]
	if !ok || raw == "" {
		return nil, nil
	}
	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("failed to decode user registry: %w", err)
	}
	return users, nil
}

func writeRegistry(kv map[string]string, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode user registry: %w", err)
	}
	kv[keyRegistry] = string(raw)
	return nil
}

// CreateUser appends the user to the registered-users array.
func (s *LocalStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.update(func(kv map[string]string) error {
		users, err := s.readRegistry(kv)
		if err != nil {
			return err
		}
		users = append(users, *user)
		return writeRegistry(kv, users)
	})
}

// GetUserByEmail scans the registry for an exact email match.
func (s *LocalStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}
	users, err := s.readRegistry(kv)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil // not found
}

// GetUserByID scans the registry for the given user ID.
func (s *LocalStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}
	users, err := s.readRegistry(kv)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil // not found
}

// SetPremium rewrites the registry entry for the given user.
func (s *LocalStore) SetPremium(ctx context.Context, userID string, premium bool) error {
	return s.update(func(kv map[string]string) error {
		users, err := s.readRegistry(kv)
		if err != nil {
			return err
		}
		for i := range users {
			if users[i].ID == userID {
				users[i].IsPremium = premium
				return writeRegistry(kv, users)
			}
		}
		return storage.ErrNotFound
	})
}

// --- HabitStore ---

// ListHabits returns the user's habit list; a user with no stored list
// gets an empty slice.
func (s *LocalStore) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := kv[habitKeyPrefix+userID]
	if !ok || raw == "" {
		return []models.Habit{}, nil
	}
	var habits []models.Habit
	if err := json.Unmarshal([]byte(raw), &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits for user %s: %w", userID, err)
	}
	return habits, nil
}

// SaveHabits replaces the user's habit list under its own key.
func (s *LocalStore) SaveHabits(ctx context.Context, userID string, habits []models.Habit) error {
	return s.update(func(kv map[string]string) error {
		if habits == nil {
			habits = []models.Habit{}
		}
		raw, err := json.Marshal(habits)
		if err != nil {
			return fmt.Errorf("failed to encode habits: %w", err)
		}
		kv[habitKeyPrefix+userID] = string(raw)
		return nil
	})
}

// --- SessionStore ---

// GetSession reassembles the session from its individual keys. An
// absent isAuthenticated key means logged out.
func (s *LocalStore) GetSession(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}

	session := models.Anonymous()
	session.Authenticated = kv[keyAuthenticated] == "true"
	session.Token = kv[keyToken]

	if raw, ok := kv[keyUser]; ok && raw != "" {
		var snap models.UserSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			session.User = &snap
		}
		// An unparseable user record leaves User nil; the session
		// manager treats authenticated-without-user as corrupt.
	}
	return session, nil
}

// SaveSession writes the session's keys. Each key is written in the
// same file rewrite here, but callers must not rely on that: the
// contract is per-key atomicity only.
func (s *LocalStore) SaveSession(ctx context.Context, session *models.Session) error {
	return s.update(func(kv map[string]string) error {
		if session == nil || !session.Authenticated {
			delete(kv, keyAuthenticated)
			delete(kv, keyUser)
			delete(kv, keyToken)
			return nil
		}
		kv[keyAuthenticated] = "true"
		if session.User != nil {
			raw, err := json.Marshal(session.User)
			if err != nil {
				return fmt.Errorf("failed to encode user snapshot: %w", err)
			}
			kv[keyUser] = string(raw)
		} else {
			delete(kv, keyUser)
		}
		if session.Token != "" {
			kv[keyToken] = session.Token
		} else {
			delete(kv, keyToken)
		}
		return nil
	})
}

// ClearSession removes the session keys only. Registry, habit lists and
// the cached entitlement flags survive logout so the user can log back
// in and resume.
func (s *LocalStore) ClearSession(ctx context.Context) error {
	return s.update(func(kv map[string]string) error {
		delete(kv, keyAuthenticated)
		delete(kv, keyUser)
		delete(kv, keyToken)
		return nil
	})
}

// GetEntitlement returns the cached flags, or nil when nothing has been
// cached yet (first login on this device).
func (s *LocalStore) GetEntitlement(ctx context.Context) (*models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := kv[keyPremium]
	if !ok {
		return nil, nil
	}
	premium, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, nil // unreadable cache is the same as no cache
	}
	return &models.Entitlement{IsPremium: premium}, nil
}

// SaveEntitlement caches both flags the way the original client did:
// isPremium as a boolean string and habitLimit as "5" or "unlimited".
func (s *LocalStore) SaveEntitlement(ctx context.Context, ent models.Entitlement) error {
	return s.update(func(kv map[string]string) error {
		kv[keyPremium] = strconv.FormatBool(ent.IsPremium)
		if ent.IsPremium {
			kv[keyHabitLimit] = limitUnlimited
		} else {
			kv[keyHabitLimit] = limitFree
		}
		return nil
	})
}

// --- PageViewStore ---

// IncrementPageView bumps the counter for path and returns the new count.
func (s *LocalStore) IncrementPageView(ctx context.Context, path string) (int64, error) {
	var count int64
	err := s.update(func(kv map[string]string) error {
		views := map[string]int64{}
		if raw, ok := kv[keyPageViews]; ok && raw != "" {
			// A corrupt counter map is reset rather than blocking auth.
			_ = json.Unmarshal([]byte(raw), &views)
		}
		views[path]++
		count = views[path]
		raw, err := json.Marshal(views)
		if err != nil {
			return fmt.Errorf("failed to encode page views: %w", err)
		}
		kv[keyPageViews] = string(raw)
		return nil
	})
	return count, err
}

// PageViews returns the accumulated path -> count map.
func (s *LocalStore) PageViews(ctx context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.load()
	if err != nil {
		return nil, err
	}
	views := map[string]int64{}
	if raw, ok := kv[keyPageViews]; ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &views)
	}
	return views, nil
}
