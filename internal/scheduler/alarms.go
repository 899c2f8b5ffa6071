package scheduler

import (
	"time"

	"github.com/sandeepkv93/apolo/internal/model"
)

// ReminderAlarm is the alarm for r's next occurrence at or after from.
// Past events have none.
func ReminderAlarm(r model.Reminder, from time.Time) (Alarm, bool) {
	at, ok := r.NextOccurrence(from)
	if !ok {
		return Alarm{}, false
	}
	return Alarm{
		ID:    ReminderAlarmID(r.ID),
		Kind:  KindReminder,
		Ref:   r.ID,
		Label: r.Name,
		At:    at,
	}, true
}

func ReminderAlarmID(reminderID string) string {
	return "reminder:" + reminderID
}

// FollowingReminderAlarm is the alarm after one that just fired. Only
// birthdays have a following one.
func FollowingReminderAlarm(r model.Reminder, fired time.Time) (Alarm, bool) {
	if r.Type != model.ReminderBirthday {
		return Alarm{}, false
	}
	return ReminderAlarm(r, fired.AddDate(0, 0, 1))
}

// UndoAlarmID is shared by every undo-expiry alarm; only one undo entry is
// ever pending.
const UndoAlarmID = "undo"

// UndoExpiryAlarm wakes the caller when the undo window for taskID closes.
func UndoExpiryAlarm(taskID string, expiresAt time.Time) Alarm {
	return Alarm{
		ID:   UndoAlarmID,
		Kind: KindUndoExpiry,
		Ref:  taskID,
		At:   expiresAt,
	}
}
