package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/flexdms/pkg/config"
)

const recordedLog = `10:00:00:000, 2.500000, 0.010000,43.90,2,-2,39,49
10:00:00:100, 2.300000, 0.100000,47.00,2,-2,39,49
10:00:00:200, 2.200000, 0.200000,49.00,2,-2,39,49
10:00:00:300, 2.500000, 0.010000,44.00,2,-2,39,49
`

func TestAnalyze(t *testing.T) {
	var out bytes.Buffer
	cfg := config.AnalysisConfig{Lower: 38, Upper: 58, Threshold: 46.7}

	require.NoError(t, analyze(strings.NewReader(recordedLog), cfg, &out))

	assert.Contains(t, out.String(), "records: 4, in window [38, 58]: 4")
	assert.Contains(t, out.String(), "above 46.7 Ohm: 0.100 s (2 readings)")
	assert.Contains(t, out.String(), "standard deviation: 1.0000 Ohm")
}

func TestAnalyze_NothingAbove(t *testing.T) {
	var out bytes.Buffer
	cfg := config.AnalysisConfig{Lower: 38, Upper: 58, Threshold: 50}

	require.NoError(t, analyze(strings.NewReader(recordedLog), cfg, &out))
	assert.Contains(t, out.String(), "no readings above 50 Ohm")
}
