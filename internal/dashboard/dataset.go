package dashboard

import (
	"time"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Dataset is one registered raw file with its optional cleaned counterpart.
type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RawPath     string    `json:"raw_path"`
	CleanPath   string    `json:"clean_path,omitempty"`
	TimeColumns []string  `json:"time_columns,omitempty"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	AddedAt     time.Time `json:"added_at"`
}

// Path is the file the pages read: the cleaned file when there is one.
func (d *Dataset) Path() string {
	if d.CleanPath != "" {
		return d.CleanPath
	}
	return d.RawPath
}

// Options returns load options carrying the declared time columns.
func (d *Dataset) Options(base table.Options) table.Options {
	if len(d.TimeColumns) > 0 {
		base.TimeColumns = append([]string(nil), d.TimeColumns...)
	}
	return base
}
