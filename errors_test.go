package elfs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mrell3n/elfs"
	"github.com/stretchr/testify/assert"
)

func TestErrorsIs__WithMessage(t *testing.T) {
	err := elfs.ErrNoSpaceOnDevice.WithMessage("data area exhausted")
	assert.True(t, errors.Is(err, elfs.ErrNoSpaceOnDevice))
	assert.False(t, errors.Is(err, elfs.ErrNoFreeInode))
	assert.Equal(t, "data area exhausted", err.Error())
}

func TestErrorsIs__WrapError(t *testing.T) {
	cause := fmt.Errorf("short write")
	err := elfs.ErrIOFailed.WrapError(cause)

	assert.True(t, errors.Is(err, elfs.ErrIOFailed))
	assert.True(t, errors.Is(err, cause), "the original cause must stay reachable")
}
