package noop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Service(t *testing.T) {
	t.Parallel()

	service := New("health server")

	assert.Equal(t, "health server (disabled)", service.String())
	runError, err := service.Start(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, runError)
	assert.NoError(t, service.Stop())
}
