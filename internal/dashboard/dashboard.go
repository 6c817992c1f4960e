// Package dashboard persists named groups of datasets as dashboard.json
// manifests.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Proxpekt/EDA-Projects/internal/table"
	"github.com/Proxpekt/EDA-Projects/internal/utils"
)

const manifestFileName = "dashboard.json"

// ErrDatasetNotFound is returned by Dataset and RemoveDataset.
var ErrDatasetNotFound = errors.New("dataset not found")

// Dashboard is a named set of datasets persisted on disk.
type Dashboard struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// on-disk location of dashboard.json
	rootDir string
}

// New constructs an in-memory dashboard. Call Save to persist.
func New(name, description, rootDir string) *Dashboard {
	return &Dashboard{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load reads dashboard.json from dir.
func Load(dir string) (*Dashboard, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dashboard not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read dashboard: %w", err)
	}
	var d Dashboard
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}
	if d.Datasets == nil {
		d.Datasets = make(map[string]*Dataset)
	}
	d.rootDir = dir
	return &d, nil
}

// RootDir returns the on-disk dashboard directory.
func (d *Dashboard) RootDir() string { return d.rootDir }

// Save writes dashboard.json atomically.
func (d *Dashboard) Save() error {
	if d.rootDir == "" {
		return errors.New("dashboard root directory not set")
	}
	if err := utils.EnsureDir(d.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	d.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(d)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(d.rootDir, manifestFileName), data)
}

// AddDataset loads the raw file, and the cleaned one when given, to check they
// parse, then registers them under name. An empty name defaults to the raw
// file's base name without extension. Declared time columns must exist in the
// file the pages read.
func (d *Dashboard) AddDataset(name, rawPath, cleanPath string, timeColumns []string, opt table.Options) (*Dataset, error) {
	if name == "" {
		base := filepath.Base(rawPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if _, err := d.Dataset(name); err == nil {
		return nil, fmt.Errorf("dataset %q already exists in %s", name, d.Name)
	}
	raw, err := table.Load(rawPath, opt)
	if err != nil {
		return nil, fmt.Errorf("load raw: %w", err)
	}
	info, err := os.Stat(rawPath)
	if err != nil {
		return nil, fmt.Errorf("stat raw: %w", err)
	}
	ds := &Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		RawPath:     rawPath,
		CleanPath:   cleanPath,
		TimeColumns: timeColumns,
		AddedAt:     info.ModTime(),
	}
	read := raw
	if cleanPath != "" || len(timeColumns) > 0 {
		if read, err = table.Load(ds.Path(), ds.Options(opt)); err != nil {
			return nil, fmt.Errorf("load %s: %w", ds.Path(), err)
		}
	}
	ds.Rows, ds.Columns = read.Shape()

	if d.Datasets == nil {
		d.Datasets = make(map[string]*Dataset)
	}
	d.Datasets[ds.ID] = ds
	d.UpdatedAt = time.Now()
	return ds, nil
}

// Dataset finds a dataset by name or ID.
func (d *Dashboard) Dataset(name string) (*Dataset, error) {
	if ds, ok := d.Datasets[name]; ok {
		return ds, nil
	}
	for _, ds := range d.Datasets {
		if ds.Name == name {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in dashboard %s", ErrDatasetNotFound, name, d.Name)
}

// RemoveDataset unregisters a dataset by name or ID. The files are kept.
func (d *Dashboard) RemoveDataset(name string) error {
	ds, err := d.Dataset(name)
	if err != nil {
		return err
	}
	delete(d.Datasets, ds.ID)
	d.UpdatedAt = time.Now()
	return nil
}

// List returns the datasets ordered by name.
func (d *Dashboard) List() []*Dataset {
	out := make([]*Dataset, 0, len(d.Datasets))
	for _, ds := range d.Datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
