package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dashboard.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	entries, _ := os.ReadDir(filepath.Dir(p))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFindDashboardRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "dashboard.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "data", "raw")
	if err := EnsureDir(deep); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(deep, "cars.csv")
	if err := os.WriteFile(file, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FindDashboardRoot(file)
	if err != nil {
		t.Fatalf("find root: %v", err)
	}
	if got != root {
		t.Fatalf("root = %s, want %s", got, root)
	}

	if _, err := FindDashboardRoot(t.TempDir()); err == nil || !strings.Contains(err.Error(), "dashboard.json") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDashboardDir(t *testing.T) {
	root := t.TempDir()
	if got := DashboardDir(root, "cars"); got != filepath.Join(root, "cars") {
		t.Fatalf("got %s", got)
	}
	if got := DashboardDir("/elsewhere", root); got != root {
		t.Fatalf("existing dir should be kept, got %s", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 5})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"rows\": 5\n}" {
		t.Fatalf("got %s", b)
	}
}
