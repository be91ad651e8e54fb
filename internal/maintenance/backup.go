package maintenance

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const backupPrefix = "taskvault_"

// BackupRunner periodically snapshots the sqlite database into timestamped
// copies and prunes old ones.
type BackupRunner struct {
	db        *sql.DB
	path      string
	schedule  cron.Schedule
	retention int
	lastCheck time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewBackupRunner creates a runner for the given cron expression.
func NewBackupRunner(db *sql.DB, path, scheduleExpr string, retention int) (*BackupRunner, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", scheduleExpr, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("could not create backup directory: %w", err)
	}
	return &BackupRunner{
		db:        db,
		path:      path,
		schedule:  schedule,
		retention: retention,
		lastCheck: time.Now(),
		done:      make(chan bool),
	}, nil
}

// Run starts the runner's ticking loop.
func (b *BackupRunner) Run() {
	log.Info().Str("dir", b.path).Msg("Starting backup runner...")
	b.ticker = time.NewTicker(1 * time.Minute)
	defer b.ticker.Stop()

	for {
		select {
		case <-b.done:
			log.Info().Msg("Stopping backup runner.")
			return
		case now := <-b.ticker.C:
			b.runIfDue(now)
		}
	}
}

// Stop halts the runner.
func (b *BackupRunner) Stop() {
	b.done <- true
}

// runIfDue fires a backup when the schedule's next run since the last check
// has passed.
func (b *BackupRunner) runIfDue(now time.Time) {
	next := b.schedule.Next(b.lastCheck)
	b.lastCheck = now
	if now.Before(next) {
		return
	}

	if err := b.Backup(now); err != nil {
		log.Error().Err(err).Msg("Database backup failed")
		return
	}
	if err := b.prune(); err != nil {
		log.Error().Err(err).Msg("Backup pruning failed")
	}
}

// Backup writes a consistent copy of the database via VACUUM INTO.
func (b *BackupRunner) Backup(now time.Time) error {
	name := fmt.Sprintf("%s%s.db", backupPrefix, now.UTC().Format("20060102150405"))
	target := filepath.Join(b.path, name)

	if _, err := b.db.Exec("VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("vacuum into %s: %w", target, err)
	}
	log.Info().Str("file", target).Msg("Database backup written")
	return nil
}

// prune removes the oldest backups beyond the retention count. Timestamped
// names sort chronologically.
func (b *BackupRunner) prune() error {
	entries, err := os.ReadDir(b.path)
	if err != nil {
		return err
	}

	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), backupPrefix) {
			backups = append(backups, entry.Name())
		}
	}
	if len(backups) <= b.retention {
		return nil
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-b.retention] {
		if err := os.Remove(filepath.Join(b.path, name)); err != nil {
			return err
		}
	}
	return nil
}
