package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersWrapSentinels(t *testing.T) {
	assert.ErrorIs(t, Validation("title is required"), ErrValidation)
	assert.ErrorIs(t, Unauthenticated("nope"), ErrUnauthenticated)
	assert.ErrorIs(t, Forbidden("nope"), ErrForbidden)
	assert.ErrorIs(t, NotFound("post not found"), ErrNotFound)
	assert.ErrorIs(t, Conflict("dup"), ErrConflict)
}

func TestMessage(t *testing.T) {
	err := Validation("%s is required", "title")
	assert.Equal(t, "title is required", err.Error())
	assert.Equal(t, "title is required", Message(err))
	assert.Equal(t, "title is required", Message(fmt.Errorf("create post: %w", err)))
	assert.Empty(t, Message(errors.New("boom")))
}

func TestStorageKeepsCauseAndHidesIt(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("save attachment", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, Message(err))
}
