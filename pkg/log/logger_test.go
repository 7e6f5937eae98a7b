package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/scismooth/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("dropped")
	logger.Info("sweep finished",
		CandidatesKey, 21,
		OptimalLambdaKey, 1e4,
		CVErrorKey, 0.25,
		WeightedKey, true,
	)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "sweep finished", entry["message"])
	assert.Equal(t, 21.0, entry[CandidatesKey])
	assert.Equal(t, 1e4, entry[OptimalLambdaKey])
	assert.Equal(t, true, entry[WeightedKey])
	assert.Contains(t, entry, "time")
}

func TestZerologLogger_ErrorCarriesStackAndDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := scierrors.NewSingularSystemError("Factorize", 4, -1, 0)
	logger.Error("factorization failed", err, LambdaKey, 0.0)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry[ErrAttrKey], "not positive definite")
	assert.NotEmpty(t, entry[StacktraceKey])

	detail, ok := entry[ErrorDetailKey].(map[string]interface{})
	require.True(t, ok, "expected structured detail, got %v", entry[ErrorDetailKey])
	assert.Equal(t, "SingularSystemError", detail["type"])
	assert.Equal(t, 4.0, detail["row"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ComponentKey, "whittaker", OrderKey, 2)

	logger.Debug("system rebuilt", LambdaKey, 100.0)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "whittaker", entries[0][ComponentKey])
	assert.Equal(t, 2.0, entries[0][OrderKey])
	assert.Equal(t, 100.0, entries[0][LambdaKey])
}

func TestZerologLogger_Enabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ToLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ToLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, SetupLogger("verbose"))
}

func TestSetLogger_Global(t *testing.T) {
	previous := GetLogger()
	defer SetLogger(previous)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)

	GetLoggerWithName("banded").Info("from global")
	assert.True(t, testLogger.ContainsField(ComponentKey, "banded"))
	assert.True(t, DefaultProvider().GetLogger() == Logger(testLogger))

	// nil でもパニックしない
	SetLogger(nil)
	GetLogger().Error("discarded")
}

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("hidden")
	testLogger.Info("visible", CVErrorKey, math.NaN(), DataLengthKey, 100)
	testLogger.Error("failed", fmt.Errorf("boom"), OperationKey, OperationSmooth)

	assert.NotEmpty(t, buffer.String())
	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsField(CVErrorKey, "NaN"))
	assert.True(t, testLogger.ContainsField(DataLengthKey, 100.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.Equal(t, 1, testLogger.CountLevel("ERROR"))

	testLogger.Clear()
	assert.Empty(t, buffer.String())
}

func TestTestLoggerProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("whittaker").Info("named logger message")

	output := buffer.String()
	assert.Contains(t, output, "provider test message")
	assert.Contains(t, output, "named logger message")
	assert.Contains(t, output, "whittaker")

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("suppressed")
	assert.NotContains(t, buffer.String(), "suppressed")
}

func TestTestLogger_Concurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	shared := testLogger.With(ComponentKey, "batch")

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				shared.Info("series done", WorkersKey, id, "series", j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, workers*perWorker)
}

func BenchmarkZerologLogger_Disabled(b *testing.B) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("system rebuilt", LambdaKey, 1e4, DataLengthKey, 1000)
	}
}
