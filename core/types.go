package core

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// Date is a calendar date (no time component). It serializes as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parsing date %q", value)
	}
	return NewDate(t), nil
}

func Today() Date {
	return NewDate(time.Now())
}

func (d Date) String() string {
	return d.Format(dateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = NewDate(v)
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// DateTime is a timestamp that serializes as "YYYY-MM-DD HH:MM:SS".
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Second)}
}

func (dt DateTime) String() string {
	return dt.Format(dateTimeFormat)
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + dt.String() + `"`), nil
}

func (dt *DateTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*dt = DateTime{}
	case time.Time:
		*dt = NewDateTime(v)
	case []byte:
		t, err := time.Parse(dateTimeFormat, string(v))
		if err != nil {
			return errors.Wrapf(err, "parsing timestamp %q", v)
		}
		*dt = DateTime{t}
	default:
		return fmt.Errorf("cannot scan %T into DateTime", value)
	}
	return nil
}

func (dt DateTime) Value() (driver.Value, error) {
	return dt.Time, nil
}
