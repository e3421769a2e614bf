package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Cardflow/internal/domain"
	"github.com/shaiso/Cardflow/internal/pipelinefile"
)

// LoadFunc загружает pipeline перед каждым запуском.
type LoadFunc func(path string) (*domain.Pipeline, error)

// RunFunc выполняет загруженный pipeline.
type RunFunc func(ctx context.Context, p *domain.Pipeline) error

// Scheduler — повторный запуск pipeline из файла по триггеру.
//
// Файл перечитывается на каждом тике, поэтому изменения,
// сделанные между запусками, подхватываются без перезапуска.
type Scheduler struct {
	path    string
	trigger Trigger
	load    LoadFunc
	run     RunFunc
	logger  *slog.Logger
	now     func() time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Path    string   // путь к файлу pipeline
	Trigger Trigger  // когда запускать
	Load    LoadFunc // default: pipelinefile.LoadFile
	Run     RunFunc  // обязательный
	Logger  *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if err := cfg.Trigger.Validate(); err != nil {
		return nil, err
	}
	if cfg.Run == nil {
		return nil, fmt.Errorf("scheduler: run function is required")
	}

	load := cfg.Load
	if load == nil {
		load = pipelinefile.LoadFile
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		path:    cfg.Path,
		trigger: cfg.Trigger,
		load:    load,
		run:     cfg.Run,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Tick загружает pipeline и выполняет его один раз.
func (s *Scheduler) Tick(ctx context.Context) error {
	p, err := s.load(s.path)
	if err != nil {
		return fmt.Errorf("load pipeline: %w", err)
	}

	if err := s.run(ctx, p); err != nil {
		return fmt.Errorf("run pipeline %s: %w", p.ID, err)
	}
	return nil
}

// Watch запускает pipeline по триггеру до отмены ctx.
//
// Ошибки одного тика логируются и не останавливают цикл.
// При отмене ctx возвращает nil.
func (s *Scheduler) Watch(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"path", s.path,
		"cron", s.trigger.CronExpr,
		"interval", s.trigger.Interval,
		"timezone", s.trigger.Timezone,
	)

	for {
		now := s.now()
		next, err := s.trigger.Next(now)
		if err != nil {
			return err
		}

		s.logger.Debug("next run scheduled", "at", next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return nil
		case <-timer.C:
		}

		if err := s.Tick(ctx); err != nil {
			s.logger.Error("scheduled run failed", "path", s.path, "error", err)
			continue
		}
		s.logger.Info("scheduled run completed", "path", s.path)
	}
}
