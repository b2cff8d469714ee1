package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"newssense/internal/config"
)

func testCommand(jsonMode bool) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", jsonMode, "")
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func TestNewOutputRespectsColorSetting(t *testing.T) {
	// Color must stay off when the configuration disables it, regardless of
	// the terminal check.
	out := NewOutput(testCommand(false), config.UIConfig{ColorEnabled: false})
	if out.colorEnabled {
		t.Error("color enabled despite color_enabled=false")
	}

	if got := out.Green("up"); got != "up" {
		t.Errorf("Green(%q) = %q, want uncolored text", "up", got)
	}
}

func TestNewOutputJSONModeDisablesColor(t *testing.T) {
	out := NewOutput(testCommand(true), config.UIConfig{ColorEnabled: true})
	if out.colorEnabled {
		t.Error("color enabled in JSON mode")
	}
	if !out.IsJSON() {
		t.Error("IsJSON() = false with --json set")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 30, 5, 0, time.UTC)

	testCases := []struct {
		name     string
		ui       config.UIConfig
		expected string
	}{
		{
			name:     "configured layouts",
			ui:       config.UIConfig{DateFormat: "02-Jan-2006", TimeFormat: "15:04:05"},
			expected: "07-Mar-2025 14:30:05",
		},
		{
			name:     "alternate layouts",
			ui:       config.UIConfig{DateFormat: "2006-01-02", TimeFormat: "15:04"},
			expected: "2025-03-07 14:30",
		},
		{
			name:     "empty layouts fall back to defaults",
			ui:       config.UIConfig{},
			expected: "07-Mar-2025 14:30:05",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := NewOutput(testCommand(false), tc.ui)
			if got := out.FormatTimestamp(ts); got != tc.expected {
				t.Errorf("FormatTimestamp = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestTableRenderWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	cmd := testCommand(false)
	cmd.SetOut(&buf)

	out := NewOutput(cmd, config.UIConfig{ColorEnabled: false})
	table := NewTable(out, "NAME", "CHANGE")
	table.AddRow("Jyothy Labs", "+1.62%")
	table.Render()

	rendered := buf.String()
	if strings.Contains(rendered, "\033[") {
		t.Errorf("table contains ANSI escapes with color off:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Jyothy Labs") {
		t.Errorf("table missing row content:\n%s", rendered)
	}
}
