package pool

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLitePool_RejectsBadConstructors(t *testing.T) {
	t.Parallel()

	_, err := NewLitePool[*bytes.Buffer](nil)
	assert.ErrorIs(t, err, ErrNilConstructor)

	_, err = NewLitePool(func() io.Writer { return nil })
	assert.ErrorIs(t, err, ErrNilValue)
}

func TestPool_ResetsOnPut(t *testing.T) {
	t.Parallel()

	p, err := NewLitePool(func() *bytes.Buffer { return new(bytes.Buffer) })
	require.NoError(t, err)

	buf := p.Get()
	buf.WriteString("payload")
	p.Put(buf)
	assert.Zero(t, buf.Len())

	assert.NotNil(t, p.Get())
}
