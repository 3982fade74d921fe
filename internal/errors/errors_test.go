package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCodeAndCause(t *testing.T) {
	root := stderrors.New("connection refused")
	ext := ExternalServiceError("chemistry toolkit", root)
	wrapped := Wrap(ext, "validate product")

	assert.Equal(t, CodeExternalService, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, "validate product: chemistry toolkit service error: connection refused", wrapped.Error())
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(stderrors.New("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIsExternalServiceErrorThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("escalate: %w", ExternalServiceError("openai", stderrors.New("503")))
	assert.True(t, IsExternalServiceError(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsExternalServiceError(ConfigInvalid("missing key")))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad smiles"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}
