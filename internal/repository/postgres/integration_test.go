//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/fileshare-server/internal/model"
	repo "github.com/dtroode/fileshare-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "fileshare_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/fileshare_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(email string) model.User {
	now := time.Now()
	return model.User{
		ID:           uuid.New(),
		Name:         "user",
		Email:        email,
		PasswordHash: []byte("hash"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newFile(owner uuid.UUID) model.File {
	id := uuid.New()
	return model.File{
		ID:           id,
		OwnerID:      owner,
		StoredName:   "user-" + owner.String() + "/file-" + id.String(),
		OriginalName: "report.pdf",
		Size:         2,
		ContentType:  "application/pdf",
		CreatedAt:    time.Now(),
	}
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	fr := repo.NewFileRepository(conn)
	gr := repo.NewGrantRepository(conn)

	alice, err := ur.Create(ctx, newUser("alice@example.com"))
	require.NoError(t, err)
	bob, err := ur.Create(ctx, newUser("bob@example.com"))
	require.NoError(t, err)

	t.Run("user_repository", func(t *testing.T) {
		_, err := ur.Create(ctx, newUser("alice@example.com"))
		require.ErrorIs(t, err, model.ErrDuplicateEmail)

		byEmail, err := ur.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, alice.ID, byEmail.ID)

		_, err = ur.GetByEmail(ctx, "ALICE@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)

		byID, err := ur.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, bob.Email, byID.Email)
	})

	f, err := fr.Create(ctx, newFile(alice.ID))
	require.NoError(t, err)

	t.Run("file_repository", func(t *testing.T) {
		got, err := fr.GetByID(ctx, f.ID)
		require.NoError(t, err)
		require.Equal(t, "report.pdf", got.OriginalName)

		_, err = fr.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)

		owned, err := fr.GetByOwner(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, owned, 1)

		none, err := fr.GetByOwner(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, none)

		_, err = fr.Create(ctx, newFile(uuid.New()))
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("direct_grants", func(t *testing.T) {
		g := model.DirectGrant{ID: uuid.New(), FileID: f.ID, RecipientID: bob.ID, CreatedAt: time.Now()}

		err := gr.CreateDirect(ctx, g, bob.ID)
		require.ErrorIs(t, err, model.ErrForbidden)

		has, err := gr.HasDirect(ctx, f.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, has)

		require.NoError(t, gr.CreateDirect(ctx, g, alice.ID))
		g.ID = uuid.New()
		require.NoError(t, gr.CreateDirect(ctx, g, alice.ID))

		has, err = gr.HasDirect(ctx, f.ID, bob.ID)
		require.NoError(t, err)
		require.True(t, has)

		shared, err := fr.GetSharedWith(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, shared, 1)

		err = gr.CreateDirect(ctx, model.DirectGrant{ID: uuid.New(), FileID: uuid.New(), RecipientID: bob.ID, CreatedAt: time.Now()}, alice.ID)
		require.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("link_grants", func(t *testing.T) {
		l := model.LinkGrant{ID: uuid.New(), FileID: f.ID, Token: "tok-" + uuid.NewString(), CreatedAt: time.Now()}

		require.ErrorIs(t, gr.CreateLink(ctx, l, bob.ID), model.ErrForbidden)
		require.NoError(t, gr.CreateLink(ctx, l, alice.ID))

		dup := l
		dup.ID = uuid.New()
		require.ErrorIs(t, gr.CreateLink(ctx, dup, alice.ID), model.ErrLinkTokenTaken)

		got, err := gr.GetLink(ctx, l.Token)
		require.NoError(t, err)
		require.Equal(t, f.ID, got.FileID)

		_, err = gr.GetLink(ctx, "never-issued")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
