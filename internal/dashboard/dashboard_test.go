package dashboard_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Proxpekt/EDA-Projects/internal/dashboard"
	"github.com/Proxpekt/EDA-Projects/internal/table"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAddSaveLoadRemove(t *testing.T) {
	tdir := t.TempDir()
	raw := writeFile(t, tdir, "household_power.csv", "Date;Time;Global_active_power\n16/12/2006;17:24:00;4.216\n16/12/2006;17:25:00;?\n")
	clean := writeFile(t, tdir, "cleaned_power.csv", "DateTime,Global_active_power\n2006-12-16 17:24:00,4.216\n")

	d := dashboard.New("power", "Household Power Consumption EDA", filepath.Join(tdir, "power"))
	ds, err := d.AddDataset("", raw, clean, []string{"DateTime"}, table.DefaultOptions())
	if err != nil {
		t.Fatalf("add dataset: %v", err)
	}
	if ds.Name != "household_power" {
		t.Fatalf("default name = %q", ds.Name)
	}
	if ds.ID == "" || ds.AddedAt.IsZero() {
		t.Fatalf("missing id or timestamp: %+v", ds)
	}
	if ds.Rows != 1 || ds.Columns != 2 {
		t.Fatalf("shape of cleaned file = %dx%d", ds.Rows, ds.Columns)
	}
	if ds.Path() != clean {
		t.Fatalf("pages should read the cleaned file, got %s", ds.Path())
	}
	if _, err := d.AddDataset("household_power", raw, "", nil, table.DefaultOptions()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if err := d.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := dashboard.Load(d.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Dataset("household_power")
	if err != nil {
		t.Fatalf("dataset by name: %v", err)
	}
	if got.ID != ds.ID || got.CleanPath != clean || len(got.TimeColumns) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if _, err := loaded.Dataset(ds.ID); err != nil {
		t.Fatalf("dataset by id: %v", err)
	}

	if err := loaded.RemoveDataset("household_power"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := loaded.RemoveDataset("household_power"); !errors.Is(err, dashboard.ErrDatasetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(loaded.List()) != 0 {
		t.Fatalf("expected empty dashboard")
	}
}

func TestAddDatasetValidatesFiles(t *testing.T) {
	tdir := t.TempDir()
	raw := writeFile(t, tdir, "cars.csv", "Name,Price\nJazz,4.5\n")
	d := dashboard.New("cars", "", filepath.Join(tdir, "cars"))

	if _, err := d.AddDataset("cars", filepath.Join(tdir, "missing.csv"), "", nil, table.DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing raw file")
	}
	if _, err := d.AddDataset("cars", raw, "", []string{"When"}, table.DefaultOptions()); err == nil {
		t.Fatalf("expected error for undeclared time column")
	}
	if _, err := d.AddDataset("cars", raw, "", nil, table.DefaultOptions()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if names := d.List(); len(names) != 1 || names[0].Name != "cars" {
		t.Fatalf("list = %+v", names)
	}
}

func TestLoadMissingDashboard(t *testing.T) {
	if _, err := dashboard.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
