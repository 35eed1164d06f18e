package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/model"
)

// MemoryDB keeps users, files and grants in maps and enforces the same
// uniqueness and ownership rules as the postgres schema.
type MemoryDB struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]model.User
	emails map[string]uuid.UUID
	files  map[uuid.UUID]model.File
	direct []model.DirectGrant
	links  map[string]model.LinkGrant
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:  make(map[uuid.UUID]model.User),
		emails: make(map[string]uuid.UUID),
		files:  make(map[uuid.UUID]model.File),
		links:  make(map[string]model.LinkGrant),
	}
}

func (db *MemoryDB) Users() model.UserStore   { return memoryUsers{db} }
func (db *MemoryDB) Files() model.FileStore   { return memoryFiles{db} }
func (db *MemoryDB) Grants() model.GrantStore { return memoryGrants{db} }

// LinkCount reports how many link grants exist.
func (db *MemoryDB) LinkCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.links)
}

type memoryUsers struct{ db *MemoryDB }

func (s memoryUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	id, ok := s.db.emails[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.db.users[id], nil
}

func (s memoryUsers) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	u, ok := s.db.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s memoryUsers) Create(_ context.Context, user model.User) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.emails[user.Email]; ok {
		return model.User{}, model.ErrDuplicateEmail
	}
	s.db.users[user.ID] = user
	s.db.emails[user.Email] = user.ID
	return user, nil
}

type memoryFiles struct{ db *MemoryDB }

func (s memoryFiles) Create(_ context.Context, file model.File) (model.File, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[file.OwnerID]; !ok {
		return model.File{}, fmt.Errorf("owner %s: %w", file.OwnerID, model.ErrNotFound)
	}
	for _, f := range s.db.files {
		if f.StoredName == file.StoredName {
			return model.File{}, fmt.Errorf("stored name %q already used", file.StoredName)
		}
	}
	s.db.files[file.ID] = file
	return file, nil
}

func (s memoryFiles) GetByID(_ context.Context, id uuid.UUID) (model.File, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	f, ok := s.db.files[id]
	if !ok {
		return model.File{}, model.ErrNotFound
	}
	return f, nil
}

func (s memoryFiles) GetByOwner(_ context.Context, ownerID uuid.UUID) ([]model.File, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	files := make([]model.File, 0)
	for _, f := range s.db.files {
		if f.OwnerID == ownerID {
			files = append(files, f)
		}
	}
	sortFiles(files)
	return files, nil
}

func (s memoryFiles) GetSharedWith(_ context.Context, recipientID uuid.UUID) ([]model.File, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	seen := make(map[uuid.UUID]bool)
	files := make([]model.File, 0)
	for _, g := range s.db.direct {
		if g.RecipientID == recipientID && !seen[g.FileID] {
			seen[g.FileID] = true
			files = append(files, s.db.files[g.FileID])
		}
	}
	sortFiles(files)
	return files, nil
}

func sortFiles(files []model.File) {
	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
}

type memoryGrants struct{ db *MemoryDB }

// owns must be called with the lock held.
func (s memoryGrants) owns(fileID, granterID uuid.UUID) bool {
	f, ok := s.db.files[fileID]
	return ok && f.OwnerID == granterID
}

func (s memoryGrants) CreateDirect(_ context.Context, grant model.DirectGrant, granterID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if !s.owns(grant.FileID, granterID) {
		return model.ErrForbidden
	}
	if _, ok := s.db.users[grant.RecipientID]; !ok {
		return fmt.Errorf("recipient %s: %w", grant.RecipientID, model.ErrNotFound)
	}
	s.db.direct = append(s.db.direct, grant)
	return nil
}

func (s memoryGrants) CreateLink(_ context.Context, grant model.LinkGrant, granterID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if !s.owns(grant.FileID, granterID) {
		return model.ErrForbidden
	}
	if _, ok := s.db.links[grant.Token]; ok {
		return model.ErrLinkTokenTaken
	}
	s.db.links[grant.Token] = grant
	return nil
}

func (s memoryGrants) HasDirect(_ context.Context, fileID, recipientID uuid.UUID) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, g := range s.db.direct {
		if g.FileID == fileID && g.RecipientID == recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (s memoryGrants) GetLink(_ context.Context, token string) (model.LinkGrant, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	g, ok := s.db.links[token]
	if !ok {
		return model.LinkGrant{}, model.ErrNotFound
	}
	return g, nil
}

// MemoryBlobs is a model.BlobStore backed by a map.
type MemoryBlobs struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ model.BlobStore = (*MemoryBlobs)(nil)

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: make(map[string][]byte)}
}

func (b *MemoryBlobs) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return nil
}

func (b *MemoryBlobs) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *MemoryBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, key)
	return nil
}

func (b *MemoryBlobs) Exists(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.blobs[key]
	return ok, nil
}

// Len reports how many blobs are stored.
func (b *MemoryBlobs) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
