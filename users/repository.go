package users

import "context"

// Repository abstracts access to the users table so that handler and service
// logic can be exercised without a real database. Implementations return
// pgx.ErrNoRows (possibly wrapped) when a lookup matches no row; the service
// layer maps that to the application error taxonomy.
type Repository interface {
	// FindByUsername returns the first user whose username matches exactly.
	// Username carries no uniqueness constraint; lookup returns the first row.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByCredentials returns the user matching both username and password
	// by exact string equality. The lookup is not case-normalized.
	FindByCredentials(ctx context.Context, username, password string) (*User, error)

	// Insert persists a new user row unconditionally. No duplicate-username
	// check is performed.
	Insert(ctx context.Context, user *User) error

	// UpdateUpload records the uploaded filename and its word count on the
	// user's row.
	UpdateUpload(ctx context.Context, username, filename string, wordCount int) error
}
