package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, "finboard:q:abc:", escapePattern("finboard:q:abc:"))
	assert.Equal(t, `a\*b\?c\[d\]`, escapePattern("a*b?c[d]"))
	assert.Equal(t, `x\\y`, escapePattern(`x\y`))
}
