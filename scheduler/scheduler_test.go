package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"museum_recommender/config"
)

func TestIntervalFollowsConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Maintenance.IntervalHours = 12
	s := NewScheduler(cfg, nil)
	assert.Equal(t, 12*time.Hour, s.interval())

	// Unset falls back to daily.
	cfg = &config.Config{}
	s = NewScheduler(cfg, nil)
	assert.Equal(t, 24*time.Hour, s.interval())
}

func TestIntervalDebugOverride(t *testing.T) {
	cfg := &config.Config{}
	cfg.Maintenance.IntervalHours = 24
	cfg.Debug.Enabled = true
	cfg.Debug.MaintenanceFreq = 15
	s := NewScheduler(cfg, nil)
	assert.Equal(t, 15*time.Second, s.interval())

	cfg.Debug.MaintenanceFreq = 0
	assert.Equal(t, 300*time.Second, s.interval())
}

func TestCheckTasksSkipsRunningTask(t *testing.T) {
	cfg := &config.Config{}
	cfg.Maintenance.IntervalHours = 1
	s := NewScheduler(cfg, nil)
	s.initTasks()

	status := s.tasks[TaskCaseMaintenance]
	status.IsRunning = true
	next := status.NextRun

	// An overdue but still-running task is left alone.
	s.checkTasks(next.Add(time.Minute))
	assert.True(t, s.tasks[TaskCaseMaintenance].IsRunning)
	assert.Equal(t, next, s.tasks[TaskCaseMaintenance].NextRun)
}
