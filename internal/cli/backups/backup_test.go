package backups

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/storage"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	s := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "streakline.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	ctx := &cli.Context{Store: s}
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx := setupTestDB(t)
	ctx.Habits.AddHabit(models.Habit{Name: "Before backup"})

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	ctx.Habits.AddHabit(models.Habit{Name: "After backup"})
	if ctx.Habits.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ctx.Habits.Len())
	}

	cmd := &BackupRestoreCmd{Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	if err := ctx.Load(); err != nil {
		t.Fatalf("reload after restore failed: %v", err)
	}
	if ctx.Habits.Len() != 1 {
		t.Errorf("Len() after restore = %d, want 1", ctx.Habits.Len())
	}
	if _, ok := ctx.Habits.FindByName("Before backup"); !ok {
		t.Error("restored database is missing the backed-up habit")
	}
	if used := ctx.Billing.UsageLimits().Habits.Used; used != 1 {
		t.Errorf("used = %d after restore, want 1", used)
	}
}

func TestBackupRestoreDeclined(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	ctx.Habits.AddHabit(models.Habit{Name: "Keep me"})

	cmd := &BackupRestoreCmd{in: strings.NewReader("n\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("declined restore returned error: %v", err)
	}
	if _, ok := ctx.Habits.FindByName("Keep me"); !ok {
		t.Error("declined restore changed state")
	}
}

func TestBackupRestoreMissing(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&BackupRestoreCmd{Yes: true}).Run(ctx); err == nil {
		t.Error("restore without backups should fail")
	}
	if err := (&BackupRestoreCmd{BackupFile: "streakline-missing.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restore of a missing file should fail")
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "state.json"))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := &cli.Context{Store: s}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create should fail for the JSON store")
	}
}
