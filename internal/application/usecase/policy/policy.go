// Package policy holds the authorization rules shared by the mutating use cases.
package policy

import (
	"strconv"

	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
)

// RequireActor rejects the zero Principal.
func RequireActor(p auth.Principal) error {
	if p.ID <= 0 {
		return apperror.NewUnauthorized("no verified principal", nil)
	}
	return nil
}

// Ownership decides whether a principal may change a row it did not create.
// When Enforce is false any authenticated principal may.
type Ownership struct {
	Enforce bool
}

func (o Ownership) Check(p auth.Principal, resource string, id int64, owned bool) error {
	if !o.Enforce || owned {
		return nil
	}
	return apperror.NewPermissionDenied(
		"user " + strconv.FormatInt(p.ID, 10) + " does not own " + resource + " " + strconv.FormatInt(id, 10),
	)
}
