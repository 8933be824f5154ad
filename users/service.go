package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/user/limerick-go/apperror"
)

// Service provides user account business logic on top of a Repository.
// Dependencies are injected via the constructor so the service can be tested
// against a fake repository.
type Service struct {
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user from the given form fields. The insert is
// unconditional: no duplicate-username check and no password strength check,
// preserving the source system's registration contract.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user := &User{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, apperror.NewPersistenceError("Database error occurred", err)
	}
	return user, nil
}

// Authenticate looks up a user matching both username and password by exact
// string equality. A non-match is reported as a NotFoundError whose message
// is the user-facing flash text.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Invalid username or password", nil)
		}
		return nil, apperror.NewPersistenceError("Database error occurred", err)
	}
	return user, nil
}

// GetProfile fetches the user record for the given username, e.g. the one
// held by the session. A missing row (session outlived the record) is a
// NotFoundError.
func (s *Service) GetProfile(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewPersistenceError("Database error occurred", err)
	}
	return user, nil
}

// RecordUpload stores the uploaded filename and word count on the user's row.
// Concurrent uploads for the same username are last-writer-wins; no locking
// is attempted.
func (s *Service) RecordUpload(ctx context.Context, username, filename string, wordCount int) error {
	if err := s.repo.UpdateUpload(ctx, username, filename, wordCount); err != nil {
		return apperror.NewPersistenceError("Database error occurred", err)
	}
	return nil
}
