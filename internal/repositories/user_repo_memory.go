package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ratlist/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users map[string]models.User // keyed by username
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return fmt.Errorf("user %s: %w", user.Username, ErrDuplicateUsername)
	}
	r.insertLocked(user)
	return nil
}

// GetByUsername returns a user by username.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
	}
	return &user, nil
}

// FindOrCreate returns the stored user or inserts the given one under a single lock.
func (r *MemoryUserRepository) FindOrCreate(_ context.Context, user *models.User) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.users[user.Username]; ok {
		return &stored, false, nil
	}
	candidate := *user
	r.insertLocked(&candidate)
	return &candidate, true, nil
}

func (r *MemoryUserRepository) insertLocked(user *models.User) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.Username] = *user
}
