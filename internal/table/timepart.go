package table

import (
	"fmt"
)

// TimePart selects a component of a timestamp.
type TimePart string

const (
	PartHour      TimePart = "hour"
	PartDate      TimePart = "date"
	PartWeekday   TimePart = "weekday"
	PartMonth     TimePart = "month"
	PartMonthName TimePart = "month_name"
	PartYear      TimePart = "year"
)

// ParseTimePart validates a part name.
func ParseTimePart(s string) (TimePart, error) {
	switch p := TimePart(s); p {
	case PartHour, PartDate, PartWeekday, PartMonth, PartMonthName, PartYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown time part %q (use hour|date|weekday|month|month_name|year)", s)
}

// DeriveTimePart builds a key column from a datetime column. Hour, month and
// year are numeric; date, weekday and month_name are categorical.
func DeriveTimePart(c *Column, part TimePart, name string) (*Column, error) {
	if c.Kind != KindDatetime {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotDatetime, c.Name, c.Kind)
	}
	if name == "" {
		name = string(part)
	}
	n := c.Len()
	switch part {
	case PartHour, PartMonth, PartYear:
		vals := make([]float64, n)
		for i := 0; i < n; i++ {
			t, ok := c.Time(i)
			if !ok {
				continue
			}
			switch part {
			case PartHour:
				vals[i] = float64(t.Hour())
			case PartMonth:
				vals[i] = float64(t.Month())
			default:
				vals[i] = float64(t.Year())
			}
		}
		return NewNumeric(name, vals, c.null), nil
	case PartDate, PartWeekday, PartMonthName:
		vals := make([]string, n)
		for i := 0; i < n; i++ {
			t, ok := c.Time(i)
			if !ok {
				continue
			}
			switch part {
			case PartDate:
				vals[i] = t.Format("2006-01-02")
			case PartWeekday:
				vals[i] = t.Weekday().String()
			default:
				vals[i] = t.Month().String()[:3]
			}
		}
		return NewCategorical(name, vals, c.null), nil
	}
	return nil, fmt.Errorf("unknown time part %q", part)
}

// ParseTimeColumn re-types a column as datetime, as pandas' parse_dates does
// after the fact. Datetime columns are returned unchanged.
func ParseTimeColumn(c *Column) (*Column, error) {
	if c.Kind == KindDatetime {
		return c, nil
	}
	if c.Kind == KindNumeric {
		return nil, fmt.Errorf("%w: %q is numeric", ErrNotDatetime, c.Name)
	}
	times, bad, ok := parseTimes(c.cells, c.null)
	if !ok {
		return nil, &ParseError{Line: bad + 2, Column: c.Name, Err: fmt.Errorf("unparseable timestamp %q", c.cells[bad])}
	}
	out := &Column{Name: c.Name, Kind: KindDatetime, cells: c.cells, null: c.null, times: times}
	return out, nil
}
