package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutput_PlainBuffer(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)

	out.Success("secret created")
	out.Error("upload failed")
	out.Warning("migration skipped")
	out.Info("plain")
	out.Detailf("status %d", 422)

	want := "✓ secret created\n✗ upload failed\n⚠ migration skipped\nplain\n   status 422\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestOutput_Quiet(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)
	out.SetQuiet(true)

	out.Header("Enabling hourly updates")
	out.Separator()
	out.Info("hidden")
	out.Success("hidden")
	out.Warning("shown warning")
	out.Error("shown error")
	out.Block("token", "steps")

	got := buf.String()
	if strings.Contains(got, "hidden") || strings.Contains(got, "Enabling") || strings.Contains(got, "━") {
		t.Errorf("quiet output leaked informational lines: %q", got)
	}
	for _, want := range []string{"shown warning", "shown error", "token\nsteps\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("quiet output missing %q: %q", want, got)
		}
	}
}

func TestOutput_SpinNonInteractive(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)
	out.SetColorEnabled(true)

	stop := out.Spin("Fetching public key...")
	stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote to a non-terminal writer: %q", buf.String())
	}
}
