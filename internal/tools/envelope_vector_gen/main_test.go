package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_MatchesCheckedInVectors(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", "conformance", "envelope", "vectors.txt"))
	require.NoError(t, err)

	var got bytes.Buffer
	require.NoError(t, render(&got))
	require.Equal(t, string(want), got.String(), "vectors.txt is stale; regenerate with go run ./internal/tools/envelope_vector_gen")
}
