package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// FromString converts a pgtype.Text to a domain's primitive string.
// A NULL value is converted to an empty string ("").
func FromString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// FromNullString converts a pgtype.Text to a *string. NULL and empty text become nil.
func FromNullString(t pgtype.Text) *string {
	if !t.Valid || t.String == "" {
		return nil
	}
	value := t.String
	return &value
}

// FromTimestamp converts a pgtype.Timestamptz to a *time.Time in UTC.
func FromTimestamp(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	value := ts.Time.UTC()
	return &value
}

// FromDate converts a pgtype.Date to a *time.Time at midnight UTC.
func FromDate(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	y, m, day := d.Time.Date()
	value := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &value
}

// FromNullNumeric converts a pgtype.Numeric to a *float64. NULL, NaN and
// infinities become nil.
func FromNullNumeric(n pgtype.Numeric) *float64 {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return nil
	}
	value := ToFloat(n)
	return &value
}

// FromNullBool converts a pgtype.Bool to a tri-state *bool.
func FromNullBool(b pgtype.Bool) *bool {
	if !b.Valid {
		return nil
	}
	value := b.Bool
	return &value
}

// ToDate converts an optional day into a pgtype.Date. A nil pointer is NULL.
func ToDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
