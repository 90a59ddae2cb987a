package exchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleState().Tasks))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Title,Description,Status,Priority,Category,Due Date,Tags,Created", lines[0])
	assert.Equal(t, `"Write report","Q3 ""numbers""","todo","high","work","2025-03-12","q3;finance","2025-03-01"`, lines[1])
	assert.Equal(t, `"Buy milk","","done","low","shopping","","","2025-03-01"`, lines[2])
}

func TestWriteCSV_NoTasks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Title,Description,Status,Priority,Category,Due Date,Tags,Created\n", buf.String())
}
