// Package users encapsulates the user account domain: the persisted User
// record, the repository abstraction over the users table, and the service
// holding registration, login and profile business logic.
package users

// User represents a user in the system, mirroring one row of the users table.
// The table's surrogate id stays in the database; all lookups go by username.
// Filename and WordCount are pointers because both columns are NULL until the
// user uploads a file.
type User struct {
	Username  string  `json:"username"`
	Password  string  `json:"-"` // Stored in cleartext; never rendered or serialized.
	FirstName string  `json:"firstname"`
	LastName  string  `json:"lastname"`
	Email     string  `json:"email"`
	Filename  *string `json:"filename,omitempty"`
	WordCount *int    `json:"word_count,omitempty"`
}
