package errors

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecover_AbsorbsPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	func() {
		defer Recover(logger, "test-context")
		panic("boom")
	}()

	output := buf.String()
	assert.Contains(t, output, "test-context")
	assert.Contains(t, output, "boom")
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	func() {
		defer Recover(logger, "test-context")
	}()

	assert.Equal(t, 0, buf.Len())
}
