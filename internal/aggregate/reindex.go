package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// Weekdays is the canonical day order, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Months is the canonical month order using three-letter names.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Policy decides what happens to keys that are not in a canonical order.
type Policy string

const (
	// DropUnknown removes them and records them in Result.Dropped.
	DropUnknown Policy = "drop"
	// RejectUnknown fails the reindex with *UnknownKeysError.
	RejectUnknown Policy = "reject"
	// AppendUnknown keeps them after the canonical keys, in their current order.
	AppendUnknown Policy = "append"
)

// ParsePolicy validates a policy name. Empty means DropUnknown.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DropUnknown, nil
	case DropUnknown, RejectUnknown, AppendUnknown:
		return p, nil
	}
	return "", fmt.Errorf("unknown policy %q (use drop|reject|append)", s)
}

// ErrUnknownKeys is matched by every *UnknownKeysError.
var ErrUnknownKeys = errors.New("keys outside canonical order")

// UnknownKeysError lists group keys missing from a canonical order.
type UnknownKeysError struct {
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownKeys, strings.Join(e.Keys, ", "))
}

func (e *UnknownKeysError) Unwrap() error { return ErrUnknownKeys }

// NamedOrder resolves "weekdays", "months" or a comma separated list.
func NamedOrder(s string) []string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil
	case "weekdays", "weekday":
		return Weekdays
	case "months", "month":
		return Months
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Reindex puts groups in exactly the given order. Keys of order with no group
// become null groups. Keys outside order are handled by policy. Only
// single-key results can be reindexed.
func (r *Result) Reindex(order []string, policy Policy) (*Result, error) {
	if len(r.Keys) != 1 {
		return nil, fmt.Errorf("reindex needs exactly one key column, have %d", len(r.Keys))
	}
	if policy == "" {
		policy = DropUnknown
	}
	byKey := make(map[string]Group, len(r.Groups))
	for _, g := range r.Groups {
		byKey[g.Key[0]] = g
	}
	inOrder := make(map[string]bool, len(order))
	out := r.clone()
	out.Groups = make([]Group, 0, len(order))
	for _, k := range order {
		if inOrder[k] {
			continue
		}
		inOrder[k] = true
		if g, ok := byKey[k]; ok {
			out.Groups = append(out.Groups, g)
			continue
		}
		out.Groups = append(out.Groups, Group{Key: []string{k}, Null: true})
	}

	var unknown []Group
	for _, g := range r.Groups {
		if !inOrder[g.Key[0]] {
			unknown = append(unknown, g)
		}
	}
	if len(unknown) == 0 {
		return out, nil
	}
	switch policy {
	case RejectUnknown:
		keys := make([]string, len(unknown))
		for i, g := range unknown {
			keys[i] = g.Key[0]
		}
		return nil, &UnknownKeysError{Keys: keys}
	case AppendUnknown:
		out.Groups = append(out.Groups, unknown...)
	default:
		for _, g := range unknown {
			out.Dropped = append(out.Dropped, g.Key[0])
		}
	}
	return out, nil
}
