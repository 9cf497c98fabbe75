package repository

import (
	"context"
	"sync"

	"accounts/internal/models"
)

// MemoryAccountRepository keeps accounts in process memory. The email index
// is checked and written under one lock, giving the same uniqueness
// guarantee as the postgres unique index.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	byID     map[string]*models.Account
	byEmail  map[string]string
	byVerify map[string]string
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:     make(map[string]*models.Account),
		byEmail:  make(map[string]string),
		byVerify: make(map[string]string),
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[a.Email]; taken {
		return ErrDuplicate
	}
	if _, taken := r.byID[a.ID]; taken {
		return ErrDuplicate
	}
	if a.VerifyTokenHash != "" {
		if _, taken := r.byVerify[a.VerifyTokenHash]; taken {
			return ErrDuplicateToken
		}
	}

	r.put(a.Clone())
	return nil
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryAccountRepository) GetByVerifyToken(_ context.Context, tokenHash string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVerify[tokenHash]
	if !ok || tokenHash == "" {
		return nil, ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Version != a.Version {
		return ErrStale
	}
	if a.VerifyTokenHash != "" {
		if id, taken := r.byVerify[a.VerifyTokenHash]; taken && id != a.ID {
			return ErrDuplicateToken
		}
	}

	delete(r.byVerify, old.VerifyTokenHash)
	// email is the natural key and is never rewritten
	next := a.Clone()
	next.Email = old.Email
	next.Version++
	r.put(next)
	a.Version = next.Version
	return nil
}

func (r *MemoryAccountRepository) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored accounts.
func (r *MemoryAccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryAccountRepository) put(a *models.Account) {
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	if a.VerifyTokenHash != "" {
		r.byVerify[a.VerifyTokenHash] = a.ID
	}
}
