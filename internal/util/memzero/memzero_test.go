package memzero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trashmail/internal/util/memzero"
)

func TestZero_WipesEveryBuffer(t *testing.T) {
	a := []byte("tmpat_secret")
	b := []byte{1, 2, 3}

	memzero.Zero(a, nil, b)

	assert.Equal(t, make([]byte, len(a)), a)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
