package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/target/bizportal/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}
	assert.Equal(t, context.Background(), SetSessionInContext(context.Background(), nil))

	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleStaff}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)
	assert.Equal(t, sess, GetSessionFromContext(ctx))
}

func TestVisitorFromContext(t *testing.T) {
	assert.Empty(t, VisitorFromContext(context.Background()))
	assert.Equal(t, "v-1", VisitorFromContext(SetVisitorInContext(context.Background(), "v-1")))
}
