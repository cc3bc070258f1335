package database

import "time"

// UTC returns a UTC copy of t, or nil. SQLite keeps the caller's offset in
// stored timestamps and compares them as text, so every stored time and
// range bound goes out in UTC.
func UTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
