package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCmd_JSONFromArgs(t *testing.T) {
	var out bytes.Buffer
	cmd := &NormalizeCmd{Raw: []string{"RTO_DELIVERED", "out for delivery"}, Format: "json"}

	require.NoError(t, cmd.Run(&out, strings.NewReader("")))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "RTO_DELIVERED", rows[0]["raw"])
	assert.Equal(t, "Returned", rows[0]["result"].(map[string]any)["display_label"])
	assert.Equal(t, float64(4), rows[1]["result"].(map[string]any)["progress_index"])
}

func TestNormalizeCmd_TableFromStdin(t *testing.T) {
	var out bytes.Buffer
	cmd := &NormalizeCmd{Format: "table"}

	require.NoError(t, cmd.Run(&out, strings.NewReader("Delivered\npickup_generated\nsomething new\n")))

	text := out.String()
	assert.Contains(t, text, "RAW")
	assert.Contains(t, text, `"pickup_generated"`)
	assert.Contains(t, text, "Pickup Scheduled")
	assert.Contains(t, text, "Delivered")
	assert.Contains(t, text, `"something new"`)
	assert.Contains(t, text, "Order Placed")
}

func TestNormalizeCmd_YAML(t *testing.T) {
	var out bytes.Buffer
	cmd := &NormalizeCmd{Raw: []string{"in transit"}, Format: "yaml"}

	require.NoError(t, cmd.Run(&out, strings.NewReader("")))

	text := out.String()
	assert.Contains(t, text, "raw: in transit")
	assert.Contains(t, text, "display_label: In Transit")
	assert.Contains(t, text, "progress_index: 3")
}

func TestStagesCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&StagesCmd{Format: "table"}).Run(&out))

	text := out.String()
	for _, label := range []string{"Order Placed", "Pickup Scheduled", "Picked Up", "In Transit", "Out for Delivery", "Delivered", "Undelivered", "Returned"} {
		assert.Contains(t, text, label)
	}
	assert.Contains(t, text, "TERMINAL")
	// Six happy path stages plus three terminal ones.
	assert.Equal(t, 9, strings.Count(text, "true"))

	out.Reset()
	require.NoError(t, (&StagesCmd{Format: "json"}).Run(&out))

	var stages []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &stages))
	assert.Len(t, stages, 8)
}

func TestUnmappedCmd(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := mr.ZAdd("status:unmapped", 12500, "lost in transit")
	require.NoError(t, err)
	_, err = mr.ZAdd("status:unmapped", 3, "damaged")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &UnmappedCmd{RedisURL: "redis://" + mr.Addr(), Limit: 10, Format: "table"}

	require.NoError(t, cmd.Run(&out))

	text := out.String()
	assert.Contains(t, text, "lost in transit")
	assert.Contains(t, text, "12,500")
	assert.Less(t, strings.Index(text, "lost in transit"), strings.Index(text, "damaged"))
}

func TestUnmappedCmd_Empty(t *testing.T) {
	mr := miniredis.RunT(t)

	var out bytes.Buffer
	cmd := &UnmappedCmd{RedisURL: "redis://" + mr.Addr(), Limit: 10, Format: "table"}

	require.NoError(t, cmd.Run(&out))
	assert.Contains(t, out.String(), "No unmapped statuses recorded.")
}

func TestUnmappedCmd_InvalidURL(t *testing.T) {
	var out bytes.Buffer
	cmd := &UnmappedCmd{RedisURL: "not-a-url", Limit: 10, Format: "table"}

	assert.Error(t, cmd.Run(&out))
}
