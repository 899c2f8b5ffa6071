package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderType = errors.New("model: invalid reminder type")

type ReminderType string

const (
	ReminderBirthday ReminderType = "birthday"
	ReminderEvent    ReminderType = "event"
)

func (r ReminderType) IsValid() bool {
	switch r {
	case ReminderBirthday, ReminderEvent:
		return true
	default:
		return false
	}
}

type Reminder struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Date string       `json:"date"`
	Type ReminderType `json:"type"`
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("model: reminder name is required")
	}
	if _, err := ParseDate(r.Date); err != nil {
		return fmt.Errorf("model: invalid reminder date %q: %w", r.Date, err)
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderType, r.Type)
	}
	return nil
}

// NextOccurrence returns the start of the next day, at or after from, on which
// the reminder falls. Birthdays repeat every year on their month and day; a
// Feb 29 birthday falls on Feb 28 in common years. Events happen once, so a
// past event reports false.
func (r Reminder) NextOccurrence(from time.Time) (time.Time, bool) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	loc := from.Location()
	today := startOfDay(from)

	switch r.Type {
	case ReminderEvent:
		at := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
		if at.Before(today) {
			return time.Time{}, false
		}
		return at, true
	case ReminderBirthday:
		at := anniversary(today.Year(), date, loc)
		if at.Before(today) {
			at = anniversary(today.Year()+1, date, loc)
		}
		return at, true
	default:
		return time.Time{}, false
	}
}

// OccursOn reports whether the reminder lands on the given calendar day.
func (r Reminder) OccursOn(day time.Time) bool {
	at, ok := r.NextOccurrence(startOfDay(day))
	if !ok {
		return false
	}
	return at.Equal(startOfDay(day))
}

func anniversary(year int, date time.Time, loc *time.Location) time.Time {
	month, day := date.Month(), date.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
