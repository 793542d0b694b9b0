package pkg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedWriter(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cw := NewCombinedWriter(&buf1, &buf2)

	n, err := cw.Write([]byte("log line"))
	require.NoError(t, err)
	assert.Equal(t, 2*len("log line"), n)
	assert.Equal(t, "log line", buf1.String())
	assert.Equal(t, "log line", buf2.String())
}
