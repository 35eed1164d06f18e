package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/fileshare-server/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

// FileStore is a mock of model.FileStore.
type FileStore struct {
	mock.Mock
}

func (m *FileStore) Create(ctx context.Context, file model.File) (model.File, error) {
	args := m.Called(ctx, file)
	if fn, ok := args.Get(0).(func(context.Context, model.File) model.File); ok {
		return fn(ctx, file), args.Error(1)
	}
	return args.Get(0).(model.File), args.Error(1)
}

func (m *FileStore) GetByID(ctx context.Context, id uuid.UUID) (model.File, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.File), args.Error(1)
}

func (m *FileStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.File, error) {
	args := m.Called(ctx, ownerID)
	files, _ := args.Get(0).([]model.File)
	return files, args.Error(1)
}

func (m *FileStore) GetSharedWith(ctx context.Context, recipientID uuid.UUID) ([]model.File, error) {
	args := m.Called(ctx, recipientID)
	files, _ := args.Get(0).([]model.File)
	return files, args.Error(1)
}

// GrantStore is a mock of model.GrantStore.
type GrantStore struct {
	mock.Mock
}

func (m *GrantStore) CreateDirect(ctx context.Context, grant model.DirectGrant, granterID uuid.UUID) error {
	return m.Called(ctx, grant, granterID).Error(0)
}

func (m *GrantStore) CreateLink(ctx context.Context, grant model.LinkGrant, granterID uuid.UUID) error {
	return m.Called(ctx, grant, granterID).Error(0)
}

func (m *GrantStore) HasDirect(ctx context.Context, fileID, recipientID uuid.UUID) (bool, error) {
	args := m.Called(ctx, fileID, recipientID)
	return args.Bool(0), args.Error(1)
}

func (m *GrantStore) GetLink(ctx context.Context, token string) (model.LinkGrant, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.LinkGrant), args.Error(1)
}
