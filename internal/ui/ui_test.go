package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Output
	Output = &buf
	t.Cleanup(func() { Output = old })
	return &buf
}

func TestTableTruncatesAndPads(t *testing.T) {
	buf := capture(t)

	table := NewTable(6, 4)
	table.Header("Name", "Cell")
	table.Row("Cube.W-long", "W-")

	out := buf.String()
	if !strings.Contains(out, "Cub...") {
		t.Errorf("long column not truncated:\n%s", out)
	}
	if !strings.Contains(out, "W-  ") {
		t.Errorf("short column not padded:\n%s", out)
	}
	if !strings.Contains(out, "─┼─") {
		t.Errorf("missing separator:\n%s", out)
	}
}

func TestMessagesGoToOutput(t *testing.T) {
	buf := capture(t)

	PrintSuccess("done")
	PrintWarning("object Camera is not a mesh")
	PrintKeyValue("Output file", "out.3mf")
	PrintCells([]string{"W-", "X+"})

	out := buf.String()
	for _, want := range []string{"done", "Camera", "out.3mf", "W-", "X+"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPluralize(t *testing.T) {
	if Pluralize(1) != "" || Pluralize(0) != "s" || Pluralize(7) != "s" {
		t.Error("unexpected pluralization")
	}
}
