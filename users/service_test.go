package users

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/limerick-go/apperror"
)

// fakeRepo is an in-memory Repository. It mimics the real table's semantics:
// no username uniqueness, first-match lookup, wrapped pgx.ErrNoRows on miss.
type fakeRepo struct {
	rows      []*User
	insertErr error
	findErr   error
	updateErr error
}

func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.rows {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("find user by username: %w", pgx.ErrNoRows)
}

func (f *fakeRepo) FindByCredentials(ctx context.Context, username, password string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.rows {
		if u.Username == username && u.Password == password {
			copy := *u
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("find user by credentials: %w", pgx.ErrNoRows)
}

func (f *fakeRepo) Insert(ctx context.Context, user *User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copy := *user
	f.rows = append(f.rows, &copy)
	return nil
}

func (f *fakeRepo) UpdateUpload(ctx context.Context, username, filename string, wordCount int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, u := range f.rows {
		if u.Username == username {
			u.Filename = &filename
			u.WordCount = &wordCount
		}
	}
	return nil
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		Username:  "alice",
		Password:  "hunter2",
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
	}
}

func TestRegister(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Nil(t, user.Filename)
	assert.Nil(t, user.WordCount)
	require.Len(t, repo.rows, 1)
}

func TestRegisterMissingField(t *testing.T) {
	fields := []func(*RegisterRequest){
		func(r *RegisterRequest) { r.Username = "" },
		func(r *RegisterRequest) { r.Password = "" },
		func(r *RegisterRequest) { r.FirstName = "" },
		func(r *RegisterRequest) { r.LastName = "" },
		func(r *RegisterRequest) { r.Email = "" },
	}
	for _, clear := range fields {
		req := validRequest()
		clear(&req)

		svc := NewService(&fakeRepo{})
		_, err := svc.Register(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperror.IsValidationError(err))
	}
}

func TestRegisterAllowsDuplicateUsername(t *testing.T) {
	// The users table carries no uniqueness constraint; a second registration
	// with the same username inserts a second row.
	repo := &fakeRepo{}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, repo.rows, 2)
}

func TestRegisterPersistenceFailure(t *testing.T) {
	svc := NewService(&fakeRepo{insertErr: errors.New("connection reset")})

	_, err := svc.Register(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsPersistenceError(err))
}

func TestAuthenticate(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid username or password", appErr.Message)
}

func TestAuthenticateIsCaseSensitive(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	// Lookup is a literal equality scan, not case-normalized.
	_, err = svc.Authenticate(context.Background(), "Alice", "hunter2")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetProfile(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestGetProfileDatabaseFailure(t *testing.T) {
	svc := NewService(&fakeRepo{findErr: errors.New("connection reset")})

	_, err := svc.GetProfile(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, apperror.IsPersistenceError(err))
}

func TestRecordUpload(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.RecordUpload(context.Background(), "alice", "Limerick-1.txt", 42))

	user, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user.Filename)
	require.NotNil(t, user.WordCount)
	assert.Equal(t, "Limerick-1.txt", *user.Filename)
	assert.Equal(t, 42, *user.WordCount)
}

func TestRecordUploadPersistenceFailure(t *testing.T) {
	svc := NewService(&fakeRepo{updateErr: errors.New("connection reset")})

	err := svc.RecordUpload(context.Background(), "alice", "Limerick-1.txt", 42)
	require.Error(t, err)
	assert.True(t, apperror.IsPersistenceError(err))
}
