package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/fileshare-server/internal/model"
	"github.com/dtroode/fileshare-server/internal/password"
	"github.com/dtroode/fileshare-server/internal/testutil"
	"github.com/dtroode/fileshare-server/internal/token"
)

type stack struct {
	db     *testutil.MemoryDB
	blobs  *testutil.MemoryBlobs
	auth   *Auth
	files  *File
	grants *Grant
	access *Access
}

func newStack() *stack {
	db := testutil.NewMemoryDB()
	blobs := testutil.NewMemoryBlobs()
	log := testutil.MakeNoopLogger()
	return &stack{
		db:     db,
		blobs:  blobs,
		auth:   NewAuth(db.Users(), password.NewBcrypt(bcrypt.MinCost), token.NewJWT("secret", time.Hour), log),
		files:  NewFile(db.Files(), blobs, log),
		grants: NewGrant(db.Files(), db.Users(), db.Grants(), nil, log),
		access: NewAccess(db.Files(), db.Grants(), blobs, nil, log),
	}
}

func (s *stack) register(t *testing.T, name, email, pw string) uuid.UUID {
	t.Helper()
	id, err := s.auth.Register(context.Background(), model.RegisterParams{Name: name, Email: email, Password: pw})
	require.NoError(t, err)
	return id
}

func (s *stack) upload(t *testing.T, owner uuid.UUID, name, body string) model.File {
	t.Helper()
	f, err := s.files.Upload(context.Background(), model.UploadParams{
		OwnerID:      owner,
		OriginalName: name,
		Size:         int64(len(body)),
		Body:         strings.NewReader(body),
	})
	require.NoError(t, err)
	return f
}

func TestCanAccess_TruthTable(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	owner := s.register(t, "O", "o@x.com", "pw")
	grantee := s.register(t, "G", "g@x.com", "pw")
	stranger := s.register(t, "S", "s@x.com", "pw")

	shared := s.upload(t, owner, "shared.txt", "a")
	private := s.upload(t, owner, "private.txt", "b")
	require.NoError(t, s.grants.GrantToUser(ctx, shared.ID, owner, "g@x.com"))

	tests := []struct {
		file      model.File
		requester uuid.UUID
		want      bool
	}{
		{shared, owner, true},
		{shared, grantee, true},
		{shared, stranger, false},
		{private, owner, true},
		{private, grantee, false},
		{private, stranger, false},
	}

	for _, tt := range tests {
		got, err := s.access.CanAccess(ctx, tt.file.ID, tt.requester)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "file %s requester %s", tt.file.OriginalName, tt.requester)
	}
}

func TestGrantByLink_ResolvesToFile(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	owner := s.register(t, "O", "o@x.com", "pw")

	for i := 0; i < 20; i++ {
		f := s.upload(t, owner, "f.txt", "x")
		tok, err := s.grants.GrantByLink(ctx, f.ID, owner)
		require.NoError(t, err)

		got, err := s.grants.ResolveLink(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got)
	}

	for i := 0; i < 20; i++ {
		forged, err := NewLinkToken()
		require.NoError(t, err)
		_, err = s.grants.ResolveLink(ctx, forged)
		assert.ErrorIs(t, err, model.ErrNotFound)
	}
}

func TestGrantByLink_ConcurrentTokensUnique(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	owner := s.register(t, "O", "o@x.com", "pw")

	const n = 1000
	files := make([]model.File, n)
	for i := range files {
		files[i] = s.upload(t, owner, "f", "")
	}

	tokens := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = s.grants.GrantByLink(ctx, files[i].ID, owner)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		_, dup := seen[tokens[i]]
		require.False(t, dup, "duplicate token %s", tokens[i])
		seen[tokens[i]] = struct{}{}
	}
	assert.Equal(t, n, s.db.LinkCount())
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	id := s.register(t, "Alice", "a@x.com", "pw1")

	session, err := s.auth.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, session.User.ID)
	assert.Equal(t, "Alice", session.User.Name)

	verified, err := s.auth.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, id, verified)

	for _, pw := range []string{"pw2", "PW1", "pw1 ", "x"} {
		_, err = s.auth.Login(ctx, "a@x.com", pw)
		assert.ErrorIs(t, err, model.ErrInvalidCredentials, pw)
	}

	_, err = s.auth.Login(ctx, "A@x.com", "pw1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.auth.Register(ctx, model.RegisterParams{Name: "Again", Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestStrangerCannotGrant(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	owner := s.register(t, "O", "o@x.com", "pw")
	stranger := s.register(t, "S", "s@x.com", "pw")
	f := s.upload(t, owner, "f", "x")

	for _, fileID := range []uuid.UUID{f.ID, uuid.New()} {
		err := s.grants.GrantToUser(ctx, fileID, stranger, "s@x.com")
		assert.ErrorIs(t, err, model.ErrForbidden)

		err = s.grants.GrantToUser(ctx, fileID, stranger, "nobody@x.com")
		assert.ErrorIs(t, err, model.ErrForbidden)

		_, err = s.grants.GrantByLink(ctx, fileID, stranger)
		assert.ErrorIs(t, err, model.ErrForbidden)
	}

	assert.Equal(t, 0, s.db.LinkCount())
	ok, err := s.access.CanAccess(ctx, f.ID, stranger)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenario_DirectShare(t *testing.T) {
	ctx := context.Background()
	s := newStack()

	alice := s.register(t, "Alice", "a@x.com", "pw1")
	bob := s.register(t, "Bob", "b@x.com", "pw2")
	carol := s.register(t, "Carol", "c@x.com", "pw3")

	session, err := s.auth.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	me, err := s.auth.Verify(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, alice, me)

	s.upload(t, me, "hello.txt", "hi")

	owned, err := s.files.ListOwnedBy(ctx, me)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "hello.txt", owned[0].OriginalName)
	fileID := owned[0].ID

	require.NoError(t, s.grants.GrantToUser(ctx, fileID, me, "b@x.com"))
	require.NoError(t, s.grants.GrantToUser(ctx, fileID, me, "b@x.com"))

	ok, err := s.access.CanAccess(ctx, fileID, bob)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.access.CanAccess(ctx, fileID, carol)
	require.NoError(t, err)
	assert.False(t, ok)

	sharedWithBob, err := s.files.ListSharedWith(ctx, bob)
	require.NoError(t, err)
	require.Len(t, sharedWithBob, 1)
	assert.Equal(t, fileID, sharedWithBob[0].ID)

	_, body, err := s.access.Download(ctx, fileID, bob)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	_, _, err = s.access.Download(ctx, fileID, carol)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
	_, _, err = s.access.Download(ctx, uuid.New(), carol)
	assert.ErrorIs(t, err, model.ErrAccessDenied)
}

func TestScenario_LinkShare(t *testing.T) {
	ctx := context.Background()
	s := newStack()
	alice := s.register(t, "Alice", "a@x.com", "pw1")
	f := s.upload(t, alice, "doc.pdf", "pdf-bytes")

	tok, err := s.grants.GrantByLink(ctx, f.ID, alice)
	require.NoError(t, err)

	fileID, ok, err := s.access.CanAccessViaLink(ctx, tok)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, f.ID, fileID)

	got, body, err := s.access.DownloadByLink(ctx, tok)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
	assert.Equal(t, "doc.pdf", got.OriginalName)

	forged, err := NewLinkToken()
	require.NoError(t, err)
	_, err = s.grants.ResolveLink(ctx, forged)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, ok, err = s.access.CanAccessViaLink(ctx, forged)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpload_RollbackKeepsBlobStoreClean(t *testing.T) {
	s := newStack()
	_, err := s.files.Upload(context.Background(), model.UploadParams{
		OwnerID:      uuid.New(),
		OriginalName: "orphan.txt",
		Size:         1,
		Body:         strings.NewReader("x"),
	})
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, s.blobs.Len())
}
