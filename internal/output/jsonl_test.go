package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancients-collective/harden/internal/types"
)

func jsonlLines(t *testing.T, r *types.Report) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Write(&buf, r))

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m), "each line must be valid JSON")
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestJSONLFormatter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Write(&buf, newTestReport(t)))
	checkGolden(t, "report.jsonl.golden", buf.Bytes())
}

func TestJSONLFormatter_LineCount(t *testing.T) {
	lines := jsonlLines(t, newTestReport(t))
	// 1 header + 10 results
	assert.Len(t, lines, 11)
}

func TestJSONLFormatter_HeaderLine(t *testing.T) {
	lines := jsonlLines(t, newTestReport(t))
	require.NotEmpty(t, lines)

	header := lines[0]
	assert.Equal(t, "header", header["type"])
	assert.Equal(t, "test-host", header["host"])
	assert.Equal(t, testSession, header["session_id"])

	summary, ok := header["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 6, summary["passed"])
	assert.EqualValues(t, 1, summary["unknown"])
}

func TestJSONLFormatter_ResultOrder(t *testing.T) {
	lines := jsonlLines(t, newTestReport(t))

	var ids []string
	for _, l := range lines[1:] {
		assert.Equal(t, "result", l["type"])
		res, ok := l["result"].(map[string]any)
		require.True(t, ok)
		ids = append(ids, res["id"].(string))
	}

	var want []string
	for _, r := range scenarioRules() {
		want = append(want, r.ID)
	}
	assert.Equal(t, want, ids)
}

func TestJSONLFormatter_EmptyReport(t *testing.T) {
	lines := jsonlLines(t, newEmptyReport(t))
	assert.Len(t, lines, 1)
}
