package main

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/FACorreiaa/journalhub/internal/api/auth"
	"github.com/FACorreiaa/journalhub/internal/api/journal"
	"github.com/FACorreiaa/journalhub/internal/api/user"
	"github.com/FACorreiaa/journalhub/internal/types"
)

// In-memory repositories with the same observable semantics as the mongo ones.

var (
	_ user.UserRepo       = (*memUserRepo)(nil)
	_ journal.JournalRepo = (*memJournalRepo)(nil)
	_ auth.RevocationRepo = (*memRevocationRepo)(nil)
)

func parseOID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]types.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]types.User)}
}

func (r *memUserRepo) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *memUserRepo) Create(_ context.Context, u *types.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if r.emailTaken(u.Email, primitive.NilObjectID) {
		return "", types.ErrConflict
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = types.RoleUser
	}
	r.users[u.ID] = *u
	return u.ID.Hex(), nil
}

func (r *memUserRepo) FindByID(_ context.Context, userID string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, ok := parseOID(userID)
	if !ok {
		return nil, types.ErrNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, types.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, userID string, params types.UpdateProfileParams) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, ok := parseOID(userID)
	if !ok {
		return nil, types.ErrNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, types.ErrNotFound
	}
	if params.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		if r.emailTaken(email, oid) {
			return nil, types.ErrConflict
		}
		u.Email = email
	}
	if params.FullName != nil {
		u.FullName = *params.FullName
	}
	if params.Nickname != nil {
		u.Nickname = *params.Nickname
	}
	if params.ProfilePic != nil {
		u.ProfilePic = *params.ProfilePic
	}
	if params.IsPrivate != nil {
		u.IsPrivate = *params.IsPrivate
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[oid] = u
	return &u, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(userID)
	u, ok := r.users[oid]
	if !ok {
		return types.ErrNotFound
	}
	now := time.Now().UTC()
	u.Password = passwordHash
	u.PasswordChangedAt = &now
	r.users[oid] = u
	return nil
}

func (r *memUserRepo) PasswordChangedAt(_ context.Context, userID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(userID)
	u, ok := r.users[oid]
	if !ok {
		return time.Time{}, types.ErrNotFound
	}
	if u.PasswordChangedAt == nil {
		return time.Time{}, nil
	}
	return *u.PasswordChangedAt, nil
}

func (r *memUserRepo) MarkDeletionStarted(_ context.Context, userID string, at time.Time) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(userID)
	u, ok := r.users[oid]
	if !ok {
		return nil, types.ErrNotFound
	}
	if u.DeletionStartedAt == nil || at.Before(*u.DeletionStartedAt) {
		u.DeletionStartedAt = &at
	}
	r.users[oid] = u
	return &u, nil
}

func (r *memUserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(userID)
	if _, ok := r.users[oid]; !ok {
		return types.ErrNotFound
	}
	delete(r.users, oid)
	return nil
}

func (r *memUserRepo) ListPendingDeletion(context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []types.User
	for _, u := range r.users {
		if u.DeletionStartedAt != nil {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

func (r *memUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memJournalRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]types.JournalEntry
}

func newMemJournalRepo() *memJournalRepo {
	return &memJournalRepo{entries: make(map[primitive.ObjectID]types.JournalEntry)}
}

func (r *memJournalRepo) Create(_ context.Context, e *types.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = primitive.NewObjectID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	r.entries[e.ID] = *e
	return nil
}

func (r *memJournalRepo) FindByID(_ context.Context, entryID string) (*types.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(entryID)
	e, ok := r.entries[oid]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &e, nil
}

// page applies the newest-first ordering and the page window to the matching entries.
func (r *memJournalRepo) page(match func(types.JournalEntry) bool, p types.Page) []types.JournalEntry {
	var out []types.JournalEntry
	for _, e := range r.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})

	skip := int(p.Skip())
	if skip >= len(out) {
		return []types.JournalEntry{}
	}
	out = out[skip:]
	if len(out) > int(p.Limit) {
		out = out[:p.Limit]
	}
	return out
}

func (r *memJournalRepo) ListByAuthor(_ context.Context, authorID string, p types.Page) ([]types.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, ok := parseOID(authorID)
	if !ok {
		return []types.JournalEntry{}, nil
	}
	return r.page(func(e types.JournalEntry) bool { return e.AuthorID == oid }, p), nil
}

func (r *memJournalRepo) ListPublic(_ context.Context, p types.Page) ([]types.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page(func(e types.JournalEntry) bool { return e.IsPublic }, p), nil
}

func (r *memJournalRepo) Update(_ context.Context, authorID, entryID string, params types.UpdateJournalEntryParams) (*types.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(entryID)
	author, _ := parseOID(authorID)
	e, ok := r.entries[oid]
	if !ok || e.AuthorID != author {
		return nil, types.ErrNotFound
	}
	if params.Title != nil {
		e.Title = *params.Title
	}
	if params.Content != nil {
		e.Content = *params.Content
	}
	if params.IsPublic != nil {
		e.IsPublic = *params.IsPublic
	}
	e.UpdatedAt = time.Now().UTC()
	r.entries[oid] = e
	return &e, nil
}

func (r *memJournalRepo) Delete(_ context.Context, authorID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(entryID)
	author, _ := parseOID(authorID)
	e, ok := r.entries[oid]
	if !ok || e.AuthorID != author {
		return types.ErrNotFound
	}
	delete(r.entries, oid)
	return nil
}

// Search approximates the text index: any query term appearing in title or content matches.
func (r *memJournalRepo) Search(_ context.Context, authorID, query string, p types.Page) ([]types.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, ok := parseOID(authorID)
	if !ok {
		return []types.JournalEntry{}, nil
	}
	terms := strings.Fields(strings.ToLower(query))
	return r.page(func(e types.JournalEntry) bool {
		if e.AuthorID != oid {
			return false
		}
		text := strings.ToLower(e.Title + " " + e.Content)
		for _, t := range terms {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}, p), nil
}

func (r *memJournalRepo) DeleteAllForUser(_ context.Context, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, _ := parseOID(authorID)
	var n int64
	for id, e := range r.entries {
		if e.AuthorID == oid {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

func (r *memJournalRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func (r *memJournalRepo) CountByAuthor(_ context.Context, authorID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oid, ok := parseOID(authorID)
	if !ok {
		return 0, nil
	}
	var n int64
	for _, e := range r.entries {
		if e.AuthorID == oid {
			n++
		}
	}
	return n, nil
}

type memRevocationRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemRevocationRepo() *memRevocationRepo {
	return &memRevocationRepo{revoked: make(map[string]time.Time)}
}

func (r *memRevocationRepo) Add(_ context.Context, token string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := auth.Fingerprint(token)
	if _, ok := r.revoked[key]; ok {
		return false, nil
	}
	r.revoked[key] = expiresAt
	return true, nil
}

func (r *memRevocationRepo) Contains(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.revoked[auth.Fingerprint(token)]
	return ok, nil
}

type upPinger struct{}

func (upPinger) Ping(context.Context, *readpref.ReadPref) error { return nil }
