// Package scheduler wraps robfig/cron to trigger scheduled briefing runs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yourusername/briefd/internal/db"
)

// BriefingRunner generates one briefing.
type BriefingRunner interface {
	Run(ctx context.Context) (*db.Briefing, error)
}

// Engine manages the cron scheduler.
type Engine struct {
	cron     *cron.Cron
	database *db.DB
	runner   BriefingRunner
	entries  map[int]cron.EntryID
}

// New creates a new cron-based Engine.
func New(database *db.DB, runner BriefingRunner) *Engine {
	return &Engine{
		cron:     cron.New(cron.WithSeconds()),
		database: database,
		runner:   runner,
		entries:  make(map[int]cron.EntryID),
	}
}

// Start begins the cron engine and loads all enabled schedules.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.LoadSchedules(ctx); err != nil {
		return fmt.Errorf("scheduler.Start: %w", err)
	}
	e.cron.Start()
	go func() {
		<-ctx.Done()
		e.cron.Stop()
	}()
	return nil
}

// LoadSchedules loads all enabled schedules from the DB and registers cron jobs.
func (e *Engine) LoadSchedules(ctx context.Context) error {
	rows, err := e.database.QueryContext(ctx,
		`SELECT id, name, cron_expr FROM schedules WHERE enabled=1`)
	if err != nil {
		return fmt.Errorf("scheduler.LoadSchedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s db.Schedule
		if err := rows.Scan(&s.ID, &s.Name, &s.CronExpr); err != nil {
			log.Printf("scheduler: scan schedule: %v", err)
			continue
		}
		if err := e.addJob(s); err != nil {
			log.Printf("scheduler: add job %d: %v", s.ID, err)
		}
	}
	return rows.Err()
}

// AddJob registers a new schedule in the cron engine.
func (e *Engine) AddJob(ctx context.Context, scheduleID int) error {
	var s db.Schedule
	err := e.database.QueryRowContext(ctx,
		`SELECT id, name, cron_expr FROM schedules WHERE id=?`,
		scheduleID,
	).Scan(&s.ID, &s.Name, &s.CronExpr)
	if err != nil {
		return fmt.Errorf("scheduler.AddJob: %w", err)
	}
	return e.addJob(s)
}

// RemoveJob deregisters a schedule from the cron engine.
func (e *Engine) RemoveJob(scheduleID int) {
	if entryID, ok := e.entries[scheduleID]; ok {
		e.cron.Remove(entryID)
		delete(e.entries, scheduleID)
	}
}

func (e *Engine) addJob(s db.Schedule) error {
	schedID := s.ID
	name := s.Name
	entryID, err := e.cron.AddFunc(s.CronExpr, func() {
		ctx := context.Background()
		if _, err := e.runner.Run(ctx); err != nil {
			log.Printf("scheduler: briefing run for schedule %d (%s): %v", schedID, name, err)
			return
		}
		_, _ = e.database.Exec(
			`UPDATE schedules SET last_run=? WHERE id=?`, time.Now(), schedID)
		// Update next_run using cron next computation.
		e.updateNextRun(schedID)
	})
	if err != nil {
		return fmt.Errorf("scheduler.addJob: parse cron: %w", err)
	}
	e.entries[s.ID] = entryID
	e.updateNextRun(s.ID)
	return nil
}

func (e *Engine) updateNextRun(scheduleID int) {
	if entryID, ok := e.entries[scheduleID]; ok {
		entry := e.cron.Entry(entryID)
		if !entry.Next.IsZero() {
			_, _ = e.database.Exec(
				`UPDATE schedules SET next_run=? WHERE id=?`,
				entry.Next, scheduleID,
			)
		}
	}
}
