package maintenance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/taskvault-be/internal/database"
)

func newBackupFixture(t *testing.T, retention int) (*BackupRunner, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := database.New(filepath.Join(dir, "app.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	backupDir := filepath.Join(dir, "backups")
	runner, err := NewBackupRunner(db, backupDir, "0 3 * * *", retention)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner, backupDir
}

func listBackups(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), backupPrefix) {
			names = append(names, entry.Name())
		}
	}
	return names
}

func TestBackupWritesDatabaseCopy(t *testing.T) {
	runner, dir := newBackupFixture(t, 7)

	if err := runner.Backup(time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("backup: %v", err)
	}

	backups := listBackups(t, dir)
	if len(backups) != 1 {
		t.Fatalf("expected one backup file, got %v", backups)
	}

	// The copy is itself a readable database with the schema applied.
	copyDB, err := database.New(filepath.Join(dir, backups[0]))
	if err != nil {
		t.Fatalf("open backup copy: %v", err)
	}
	defer copyDB.Close()
	var count int
	if err := copyDB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("query backup copy: %v", err)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	runner, dir := newBackupFixture(t, 2)

	base := time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC)
	for day := 0; day < 4; day++ {
		if err := runner.Backup(base.AddDate(0, 0, day)); err != nil {
			t.Fatalf("backup %d: %v", day, err)
		}
	}
	if err := runner.prune(); err != nil {
		t.Fatalf("prune: %v", err)
	}

	backups := listBackups(t, dir)
	if len(backups) != 2 {
		t.Fatalf("expected 2 retained backups, got %v", backups)
	}
	for _, name := range backups {
		if name < backupPrefix+"20260822" {
			t.Fatalf("pruned the wrong files: %v", backups)
		}
	}
}

func TestRunIfDue(t *testing.T) {
	runner, dir := newBackupFixture(t, 7)

	// A check window that does not cross 03:00 does nothing.
	runner.lastCheck = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	runner.runIfDue(time.Date(2026, 8, 28, 10, 1, 0, 0, time.UTC))
	if got := listBackups(t, dir); len(got) != 0 {
		t.Fatalf("expected no backup outside the schedule, got %v", got)
	}

	// Crossing 03:00 fires exactly one backup.
	runner.lastCheck = time.Date(2026, 8, 28, 2, 59, 30, 0, time.UTC)
	runner.runIfDue(time.Date(2026, 8, 28, 3, 0, 30, 0, time.UTC))
	if got := listBackups(t, dir); len(got) != 1 {
		t.Fatalf("expected one backup after crossing the schedule, got %v", got)
	}
}

func TestNewBackupRunnerRejectsBadSchedule(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if _, err := NewBackupRunner(db, t.TempDir(), "not a cron expr", 7); err == nil {
		t.Fatal("expected invalid schedule to be rejected")
	}
}
