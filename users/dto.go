package users

import (
	"fmt"

	"github.com/user/limerick-go/apperror"
)

// RegisterRequest carries the registration form fields from the web layer to
// the service. All five fields are required.
type RegisterRequest struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// Validate checks that every required field is present. It reports the first
// missing field, matching the original's behavior of failing on the first
// absent form key.
func (r RegisterRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"username", r.Username},
		{"password", r.Password},
		{"firstname", r.FirstName},
		{"lastname", r.LastName},
		{"email", r.Email},
	}
	for _, field := range required {
		if field.value == "" {
			return apperror.NewValidationError(fmt.Sprintf("missing required field: %s", field.name), nil)
		}
	}
	return nil
}
