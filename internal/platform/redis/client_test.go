package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyURL(t *testing.T) {
	c, err := New(context.Background(), "")
	require.ErrorIs(t, err, ErrNoURL)
	assert.Nil(t, c)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), "http://not-redis")
	assert.ErrorContains(t, err, "parse redis URL")
}
