// Package scheduler повторно запускает pipeline из файла по расписанию.
//
// Структура:
//   - cron.go      — Trigger, парсинг cron-выражений и вычисление следующего времени
//   - scheduler.go — Scheduler (Tick, Watch)
//
// Использование:
//
//	sched, err := scheduler.New(scheduler.Config{
//	    Path:    "numbers.json",
//	    Trigger: scheduler.Trigger{CronExpr: "*/5 * * * *", Timezone: "Europe/Moscow"},
//	    Run: func(ctx context.Context, p *domain.Pipeline) error {
//	        _, err := runner.Run(ctx, p, nil)
//	        return err
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	return sched.Watch(ctx) // блокируется до отмены ctx
package scheduler
