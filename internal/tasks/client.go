package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs library maintenance tasks on a backlite queue. Tasks live in
// a separate SQLite file next to the library database.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	running  atomic.Bool
}

// DBPath returns the task database path for a library database:
// "./library.db" becomes "./library-tasks.db".
func DBPath(libraryDBPath string) string {
	base := filepath.Base(libraryDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(filepath.Dir(libraryDBPath), strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

func openTaskDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// Workers plus room for Enqueue and Status calls from the API.
	db.SetMaxOpenConns(workers + 4)
	db.SetMaxIdleConns(workers + 1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens (creating if needed) the task database for libraryDBPath
// and installs the backlite schema. Queues are registered afterwards with
// Register.
func NewClient(libraryDBPath string, cfg Config) (*Client, error) {
	workers := max(cfg.Workers, 1)

	db, err := openTaskDB(DBPath(libraryDBPath), workers)
	if err != nil {
		return nil, fmt.Errorf("open task database: %w", err)
	}

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err == nil {
		err = bl.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init task queue: %w", err)
	}

	return &Client{backlite: bl, db: db, workers: workers}, nil
}

// Register adds queues. It must happen before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// Start runs the workers until ctx is cancelled or Stop is called. A second
// call is ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	log.Printf("Task queue: started with %d workers", c.workers)
	c.backlite.Start(ctx)
}

// Stop waits for in-flight tasks until ctx expires. It reports whether all
// workers finished in time; a client that never started stops trivially.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	if !c.backlite.Stop(ctx) {
		log.Println("Task queue: stop timed out, some tasks may not have completed")
		return false
	}
	log.Println("Task queue: stopped")
	return true
}

// Close releases the task database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue saves task and returns its ID.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	ids, err := c.backlite.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// Status looks up a task by the ID Enqueue returned.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// taskLogger routes backlite's logs through the standard logger.
type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
