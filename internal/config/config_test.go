package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SampleRows != 5 || c.CountPlotTop != 15 || c.HeatmapDefaultCols != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if !c.InferTimes || c.ChartFormat != "svg" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.DashboardsDir == "" {
		t.Fatalf("dashboards_dir should default under the home dir")
	}

	c.ChartFormat = "png"
	c.Delimiter = ";"
	c.WatchIntervalMs = 250
	if err := Save(c, cfgFile); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.ChartFormat != "png" || back.DelimiterRune() != ';' {
		t.Fatalf("round trip lost values: %+v", back)
	}
	if back.WatchInterval() != 250*time.Millisecond {
		t.Fatalf("watch interval = %v", back.WatchInterval())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("EDA_SAMPLE_ROWS", "12")
	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SampleRows != 12 {
		t.Fatalf("sample_rows = %d, want 12 from env", c.SampleRows)
	}
}

func TestDelimiterRune(t *testing.T) {
	cases := map[string]rune{"": 0, "auto": 0, "tab": '\t', `\t`: '\t', "|": '|'}
	for in, want := range cases {
		c := &Global{Delimiter: in}
		if got := c.DelimiterRune(); got != want {
			t.Fatalf("DelimiterRune(%q) = %q, want %q", in, got, want)
		}
	}
}
