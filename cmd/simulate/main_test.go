package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	r, err := simulate(10, 100, 42)
	require.NoError(t, err)
	assert.Equal(t, 10, r.Nodes)
	assert.Equal(t, 100, r.Sent)
	assert.Equal(t, 100, r.Processed+r.Below)
	assert.LessOrEqual(t, r.Stored, r.Processed)
	assert.Contains(t, r.Latency, "p99")
	assert.LessOrEqual(t, r.Latency["p50"], r.Latency["max"])
}

func TestSimulateEmpty(t *testing.T) {
	r, err := simulate(0, 5, 1)
	require.NoError(t, err)
	assert.Zero(t, r.Processed)
	assert.Zero(t, r.Below)
}
