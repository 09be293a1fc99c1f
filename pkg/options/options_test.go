package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolve(t *testing.T) {
	o := Resolve()
	assert.Equal(t, DefaultOptions.Workers, o.Workers)
	assert.False(t, o.PreserveCase)
	assert.Equal(t, 1, o.MinWordLength)
	assert.NotNil(t, o.Logger)

	l := zap.NewExample()
	o = Resolve(WithWorkers(3), WithPreserveCase(), WithMinWordLength(4), WithLogger(l))
	assert.Equal(t, 3, o.Workers)
	assert.True(t, o.PreserveCase)
	assert.Equal(t, 4, o.MinWordLength)
	assert.Same(t, l, o.Logger)
}

func TestResolveClampsInvalid(t *testing.T) {
	o := Resolve(WithWorkers(0), WithMinWordLength(-2), WithLogger(nil))
	assert.Equal(t, 1, o.Workers)
	assert.Equal(t, 1, o.MinWordLength)
	assert.NotNil(t, o.Logger)
}
