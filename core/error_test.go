package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NewError(KindNotFound, "Chat not found")))
	assert.Equal(t, KindNetwork, KindOf(errors.New("connection refused")),
		"foreign errors classify as network")

	wrapped := fmt.Errorf("search: %w", NewError(KindValidation, "invalid id"))
	assert.Equal(t, KindValidation, KindOf(wrapped))
}

func TestIsKind(t *testing.T) {
	err := NewError(KindAlreadyMember, "Already a member of this chat")

	assert.True(t, IsKind(err, KindAlreadyMember))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(nil, KindNetwork), "nil is no kind at all")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Chat is private", NewError(KindUnauthorized, "Chat is private").Error())
}
