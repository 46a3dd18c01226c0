package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleOutputWrite(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "console-*.log")
	require.NoError(t, err)
	defer f.Close()

	out := &ConsoleOutput{writer: f, color: false}
	err = out.Write(LogEntry{
		Time:       time.Now().UnixNano(),
		Severity:   INFO,
		Message:    "population evaluated",
		File:       "engine.go",
		Line:       42,
		Generation: 2,
		Fields:     map[string]interface{}{"best": 9.0},
	})
	require.NoError(t, err)
	require.NoError(t, out.Sync())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "population evaluated")
	assert.Contains(t, line, "[engine.go:42]")
	assert.Contains(t, line, "[gen=2]")
	assert.Contains(t, line, "best=9")
}

func TestConsoleOutputTruncatesLongFields(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	formatted := formatFields(map[string]interface{}{"prompt": string(long)})
	assert.Contains(t, formatted, "...")
	assert.Less(t, len(formatted), 150)
}

func TestFileOutputWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.jsonl")
	out, err := NewFileOutput(path)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		err = out.Write(LogEntry{
			Time:     time.Now().UnixNano(),
			Severity: DEBUG,
			Message:  "mutation applied",
			GenomeID: "g-1",
		})
		require.NoError(t, err)
	}
	require.NoError(t, out.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		assert.Equal(t, "mutation applied", entry["message"])
		assert.Equal(t, "g-1", entry["genome_id"])
		count++
	}
	assert.Equal(t, 2, count)
}
