package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bearthen/library/internal/exporters"
)

// Backuper writes a JSON export into dir, keeping the newest keep files.
type Backuper interface {
	Backup(dir string, keep int) (exporters.ExportResult, error)
}

// BackupConfig controls the periodic library backup.
type BackupConfig struct {
	Enabled  bool
	Schedule string
	Dir      string
	Keep     int
}

// BackupStatus describes the outcome of the most recent run.
type BackupStatus struct {
	LastRun    time.Time  `json:"last_run"`
	LastStatus string     `json:"last_status"` // "success" or "failed"
	LastResult string     `json:"last_result"`
	NextRun    *time.Time `json:"next_run,omitempty"`
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime calculates when schedule fires next after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// BackupScheduler periodically exports the library to a backup directory
type BackupScheduler struct {
	store  Backuper
	config BackupConfig

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	statusMu sync.RWMutex
	status   BackupStatus
}

// NewBackupScheduler creates a new scheduler instance
func NewBackupScheduler(store Backuper, cfg BackupConfig) *BackupScheduler {
	return &BackupScheduler{
		store:  store,
		config: cfg,
		cron:   cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if backups are enabled
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Backup scheduler: disabled")
		return nil
	}

	if s.config.Dir == "" {
		log.Printf("Backup scheduler: backup directory not configured, skipping")
		return nil
	}

	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.config.Schedule, time.Now())
	log.Printf("Backup scheduler: started with schedule '%s' into %s. Next run: %v",
		s.config.Schedule, s.config.Dir, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running backup to finish and stops the scheduler
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// RunNow performs a backup synchronously, regardless of the schedule
func (s *BackupScheduler) RunNow() (exporters.ExportResult, error) {
	return s.runBackup()
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the last run outcome and the next scheduled run.
func (s *BackupScheduler) Status() BackupStatus {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()
	status.NextRun = s.GetNextRunTime()
	return status
}

func (s *BackupScheduler) runBackup() (exporters.ExportResult, error) {
	if s.config.Dir == "" {
		err := fmt.Errorf("backup directory not configured")
		s.setStatus("failed", err.Error())
		return exporters.ExportResult{}, err
	}

	log.Printf("Backup: starting export to %s", s.config.Dir)
	startTime := time.Now()

	result, err := s.store.Backup(s.config.Dir, s.config.Keep)
	if err != nil {
		errMsg := fmt.Sprintf("Backup failed: %v", err)
		log.Printf("Backup: %s", errMsg)
		s.setStatus("failed", errMsg)
		return result, err
	}

	successMsg := fmt.Sprintf("Exported %d books, %d lists to %s in %v",
		result.BooksProcessed, result.ListsProcessed, result.Path, time.Since(startTime).Round(time.Millisecond))
	log.Printf("Backup: %s", successMsg)
	s.setStatus("success", successMsg)
	return result, nil
}

func (s *BackupScheduler) setStatus(status, message string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = BackupStatus{
		LastRun:    time.Now(),
		LastStatus: status,
		LastResult: message,
	}
}
