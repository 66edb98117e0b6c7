package admin

import (
	"github.com/suxessedu/suxess-web/internal/api"
)

type Admin struct {
	ID        api.ID `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsCurrent bool   `json:"isCurrent"`
}

// CreateAdminRequest is the new-admin form, sent upstream as is.
type CreateAdminRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// MarkCurrent flags the acting admin. The upstream flag is kept; the session
// user id is a second source for APIs that do not send it.
func MarkCurrent(admins []Admin, current api.ID) {
	for i := range admins {
		if !current.IsZero() && admins[i].ID.Equal(current) {
			admins[i].IsCurrent = true
		}
	}
}
