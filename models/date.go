package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// DateLayout is the wire format for calendar dates, e.g. "2025-08-20".
const DateLayout = "2006-01-02"

// Date is the canonical calendar-date value used across the engine. It carries
// no time of day and no timezone; two dates are the same day iff year, month
// and day match in the deployment's local calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its local calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Weekday returns the day of week (Sunday = 0).
func (d Date) Weekday() time.Weekday {
	return d.At(time.Local).Weekday()
}

// At returns midnight of the date in the given location.
func (d Date) At(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores dates as "YYYY-MM-DD" strings, the queryable form
// the appointments collection is indexed on.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.String, bsoncore.AppendString(nil, d.String()), nil
}

// UnmarshalBSONValue is the single normalization point for stored dates. The
// collections historically hold a mix of "YYYY-MM-DD" strings and raw
// datetime values; both decode to the same local calendar day here so no
// other layer ever parses a date field itself.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("date: corrupt string value")
		}
		parsed, err := ParseDate(s)
		if err != nil {
			// Legacy documents carried full timestamps as strings.
			ts, terr := time.Parse(time.RFC3339, s)
			if terr != nil {
				return err
			}
			parsed = DateOf(ts.In(time.Local))
		}
		*d = parsed
		return nil
	case bsontype.DateTime:
		ms, _, ok := bsoncore.ReadDateTime(data)
		if !ok {
			return fmt.Errorf("date: corrupt datetime value")
		}
		*d = DateOf(time.UnixMilli(ms).In(time.Local))
		return nil
	case bsontype.Null:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("date: cannot decode BSON type %s", t)
	}
}
