package scheduler

import (
	"sync"
	"time"

	"museum_recommender/config"
	"museum_recommender/logger"
	"museum_recommender/services"
)

// TaskType identifies a scheduled job.
type TaskType int

const (
	TaskCaseMaintenance TaskType = iota
)

// TaskStatus tracks one task's schedule. IsRunning doubles as the
// serialization guard: maintenance is a whole-table batch and must
// never overlap with itself.
type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	IsRunning   bool
	Description string
}

// Scheduler drives the periodic case-base maintenance.
type Scheduler struct {
	cfg   *config.Config
	maint *services.MaintenanceService
	tasks map[TaskType]*TaskStatus
	mutex sync.Mutex
}

// NewScheduler builds a scheduler around the maintenance service.
func NewScheduler(cfg *config.Config, maint *services.MaintenanceService) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		maint: maint,
		tasks: make(map[TaskType]*TaskStatus),
	}
}

// Start launches the scheduler loop in the background.
func Start(cfg *config.Config, maint *services.MaintenanceService) {
	s := NewScheduler(cfg, maint)
	s.initTasks()
	go s.run()

	checkInterval := cfg.Maintenance.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60
	}
	logger.Info("scheduler started", "check_interval_sec", checkInterval)
}

func (s *Scheduler) interval() time.Duration {
	if s.cfg.Debug.Enabled {
		freq := s.cfg.Debug.MaintenanceFreq
		if freq <= 0 {
			freq = 300
		}
		return time.Duration(freq) * time.Second
	}
	hours := s.cfg.Maintenance.IntervalHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *Scheduler) initTasks() {
	now := time.Now()
	interval := s.interval()

	s.tasks[TaskCaseMaintenance] = &TaskStatus{
		LastRun:     now,
		NextRun:     now.Add(interval),
		IsRunning:   false,
		Description: "case utility maintenance",
	}
	if s.cfg.Debug.Enabled {
		logger.Info("debug mode enabled", "maintenance_interval", interval.String())
	}
	logger.Info("scheduled tasks initialized", "task_count", len(s.tasks), "interval", interval.String())
}

func (s *Scheduler) run() {
	checkInterval := s.cfg.Maintenance.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60
	}
	ticker := time.NewTicker(time.Duration(checkInterval) * time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		s.checkTasks(now)
	}
}

func (s *Scheduler) checkTasks(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		if status.IsRunning {
			continue
		}
		if status.NextRun.IsZero() {
			continue
		}
		if now.After(status.NextRun) || now.Equal(status.NextRun) {
			status.IsRunning = true
			go s.runTask(taskType, now)
		}
	}
}

func (s *Scheduler) runTask(taskType TaskType, now time.Time) {
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now
		status.NextRun = now.Add(s.interval())

		logger.Info("task finished", "task", status.Description, "next_run", status.NextRun.Format("2006-01-02 15:04:05"))
	}()

	switch taskType {
	case TaskCaseMaintenance:
		logger.Info("running case maintenance")
		updated, forgotten, err := s.maint.RunOnce()
		if err != nil {
			logger.Error("case maintenance failed", "error", err)
			return
		}
		logger.Info("case maintenance done", "updated", updated, "forgotten", forgotten)
	}
}
