package policy

import (
	"testing"

	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/stretchr/testify/assert"
)

func TestRequireActor(t *testing.T) {
	assert.ErrorIs(t, RequireActor(auth.Principal{}), apperror.ErrUnauthorized)
	assert.NoError(t, RequireActor(auth.Principal{ID: 1, Email: "a@b.c"}))
}

func TestOwnership(t *testing.T) {
	p := auth.Principal{ID: 2}

	assert.NoError(t, Ownership{}.Check(p, "blog", 1, false))
	assert.NoError(t, Ownership{Enforce: true}.Check(p, "blog", 1, true))

	err := Ownership{Enforce: true}.Check(p, "blog", 1, false)
	assert.ErrorIs(t, err, apperror.ErrPermission)
	assert.Equal(t, 403, apperror.ToHTTPStatus(err))
}
