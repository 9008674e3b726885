// Package scheduler wires the periodic triggers: the recurring-task checks
// per cadence and the daily reminder sweep. All timing lives here; the
// services it drives are plain synchronous entry points.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"workdesk/internal/config"
	"workdesk/internal/models"
	"workdesk/internal/services"
)

type Scheduler struct {
	cron *cron.Cron
}

func New(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// RegisterJobs hooks the three production jobs up to their cron specs.
func (s *Scheduler) RegisterJobs(cfg config.SchedulerConfig, recurring *services.RecurringTaskService, reminders *services.ReminderService) error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"weekly_check", cfg.WeeklySpec, func(ctx context.Context) error {
			return recurring.ProcessCadence(ctx, models.RecurrenceWeekly)
		}},
		{"monthly_check", cfg.MonthlySpec, func(ctx context.Context) error {
			return recurring.ProcessCadence(ctx, models.RecurrenceMonthly)
		}},
		{"reminder_check", cfg.ReminderSpec, func(ctx context.Context) error {
			return reminders.SendDueReminders(ctx, cfg.ReminderHoursAhead)
		}},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := job.run(ctx); err != nil {
				log.Printf("[scheduler][%s][err] %v", job.name, err)
			}
		}); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the trigger and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
