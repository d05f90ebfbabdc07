package iocontext

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIODefault(t *testing.T) {
	streams := GetIO(context.Background())
	assert.Equal(t, os.Stdout, streams.Out)
	assert.Equal(t, os.Stderr, streams.ErrOut)
}

func TestBuffers(t *testing.T) {
	streams, out, errOut := Buffers("secret\n")
	ctx := WithIO(context.Background(), streams)

	got := GetIO(ctx)
	_, _ = io.WriteString(got.Out, "hello")
	_, _ = io.WriteString(got.ErrOut, "oops")
	in, err := io.ReadAll(got.In)
	require.NoError(t, err)

	assert.Equal(t, "hello", out.String())
	assert.Equal(t, "oops", errOut.String())
	assert.Equal(t, "secret\n", string(in))
}
