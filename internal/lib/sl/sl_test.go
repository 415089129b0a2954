package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretMasksValue(t *testing.T) {
	assert.Equal(t, "***", Secret("key", "short").Value.String())
	assert.Equal(t, "sk-a***wxyz", Secret("key", "sk-abcdefghijklmnopqrstuvwxyz").Value.String())
}

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}
