package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultDuration — длительность лекции, если время окончания не указано.
const DefaultDuration = 90 * time.Minute

var (
	ErrBadPeriod = errors.New("bad period")
	ErrBadForm   = errors.New("bad form")
)

// ParsePeriod разбирает "YYYY-MM-DD HH:MM[-HH:MM]" или, если день уже
// выбран, "HH:MM[-HH:MM]".
func ParsePeriod(text string, day time.Time, loc *time.Location) (start, end time.Time, err error) {
	fields := strings.Fields(text)

	var datePart, timePart string
	switch len(fields) {
	case 1:
		if day.IsZero() {
			return start, end, ErrBadPeriod
		}
		datePart, timePart = day.Format("2006-01-02"), fields[0]
	case 2:
		datePart, timePart = fields[0], fields[1]
	default:
		return start, end, ErrBadPeriod
	}

	date, err := time.ParseInLocation("2006-01-02", datePart, loc)
	if err != nil {
		return start, end, ErrBadPeriod
	}

	from, to, hasEnd := strings.Cut(timePart, "-")
	startClock, err := time.Parse("15:04", from)
	if err != nil {
		return start, end, ErrBadPeriod
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
	end = start.Add(DefaultDuration)

	if hasEnd {
		endClock, err := time.Parse("15:04", to)
		if err != nil {
			return start, end, ErrBadPeriod
		}
		end = time.Date(date.Year(), date.Month(), date.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc)
		if !end.After(start) {
			return start, end, ErrBadPeriod
		}
	}
	return start, end, nil
}

// ParseForm разбирает лекцию, введённую одним сообщением: "Название; период".
func ParseForm(text string, loc *time.Location) (title string, start, end time.Time, err error) {
	title, period, ok := strings.Cut(text, ";")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return "", start, end, ErrBadForm
	}
	start, end, err = ParsePeriod(period, time.Time{}, loc)
	if err != nil {
		return "", start, end, ErrBadForm
	}
	return title, start, end, nil
}

// ParseLink возвращает ссылку, если текст — http(s)-адрес.
func ParseLink(text string) (string, bool) {
	text = strings.TrimSpace(text)
	u, err := url.Parse(text)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return text, true
}
