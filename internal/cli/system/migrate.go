package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/streakline/internal/backup"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/storage"
)

type MigrateCmd struct {
	Status   bool `help:"Only print the schema version."`
	NoBackup bool `name:"no-backup" help:"Skip the SQLite backup taken before migrating."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("migrate only applies to SQL storage (SQLite or PostgreSQL)")
	}
	defer ctx.Store.Close()

	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (latest %d)\n", current, latest)
	if c.Status || current >= latest {
		return nil
	}

	if _, isSQLite := ctx.Store.(*storage.SQLiteStore); isSQLite && !c.NoBackup {
		info, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
		if err != nil {
			return fmt.Errorf("pre-migration backup failed (use --no-backup to skip): %w", err)
		}
		fmt.Printf("Backup: %s\n", filepath.Base(info.Path))
	}

	n, err := m.Migrate(func(line string) { fmt.Println(line) })
	if err != nil {
		return fmt.Errorf("migration failed after %d step(s): %w", n, err)
	}
	fmt.Printf("Schema is now at version %d.\n", latest)
	return nil
}
