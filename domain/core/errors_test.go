package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrRunNotFound))
	assert.False(t, IsNotFoundError(ErrPreconditionFailed))
	assert.False(t, IsNotFoundError(ErrMissingCredential))
}
