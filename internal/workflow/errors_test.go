package workflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindGenerationFailed, KindOf(fmt.Errorf("unit outline: %w: boom", ErrGenerationFailed)))
	assert.Equal(t, KindEmptyOutput, KindOf(fmt.Errorf("unit draft: %w", ErrEmptyOutput)))
	assert.Equal(t, KindMalformedOutput, KindOf(fmt.Errorf("%w: failed outline-check", ErrMalformedOutput)))
	assert.Equal(t, KindLoopExhausted, KindOf(fmt.Errorf("%w: after 3 attempts", ErrLoopExhausted)))
	assert.Equal(t, KindToolFailure, KindOf(fmt.Errorf("%w: permission denied", ErrToolFailure)))
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("something else")))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrGenerationFailed))
	assert.True(t, Retryable(ErrEmptyOutput))
	assert.True(t, Retryable(ErrMalformedOutput))
	assert.False(t, Retryable(ErrLoopExhausted))
	assert.False(t, Retryable(ErrToolFailure))
	assert.False(t, Retryable(fmt.Errorf("unclassified")))
}
