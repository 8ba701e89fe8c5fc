package domain

import "time"

// TimeLayout - формат меток времени в хранимых записях (UTC, миллисекунды).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func Timestamp(t time.Time) string { return t.UTC().Format(TimeLayout) }

// ParseTimestamp - разбор метки; понимает и RFC3339 без миллисекунд.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
