package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ErrInvalidTrigger — не задан ни cron, ни интервал, или заданы оба.
var ErrInvalidTrigger = errors.New("trigger needs exactly one of cron expression or interval")

// Trigger — правило повторного запуска.
type Trigger struct {
	// CronExpr — cron-выражение ("*/5 * * * *").
	CronExpr string

	// Interval — фиксированный интервал между запусками.
	Interval time.Duration

	// Timezone — IANA timezone для cron. Невалидная или пустая — UTC.
	Timezone string
}

// IsCron возвращает true, если триггер задан cron-выражением.
func (t Trigger) IsCron() bool {
	return t.CronExpr != ""
}

// Validate проверяет триггер.
func (t Trigger) Validate() error {
	switch {
	case t.IsCron() && t.Interval > 0, !t.IsCron() && t.Interval <= 0:
		return ErrInvalidTrigger
	case t.IsCron():
		return ValidateCronExpr(t.CronExpr)
	default:
		return nil
	}
}

// Next вычисляет следующее время запуска после from.
func (t Trigger) Next(from time.Time) (time.Time, error) {
	if t.IsCron() {
		return NextDue(t.CronExpr, t.Timezone, from)
	}
	if t.Interval > 0 {
		return from.Add(t.Interval).UTC(), nil
	}
	return time.Time{}, ErrInvalidTrigger
}

// NextDue вычисляет следующее время по cron-выражению.
//
// Выражение интерпретируется в timezone; если timezone невалидный,
// используется UTC. Результат возвращается в UTC.
func NextDue(cronExpr, timezone string, from time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		// Fallback на UTC если timezone невалидный
		loc = time.UTC
	}

	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}

	return schedule.Next(from.In(loc)).UTC(), nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}
