package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/cli/backups"
	"github.com/julianstephens/streakline/internal/cli/billing"
	"github.com/julianstephens/streakline/internal/cli/habits"
	"github.com/julianstephens/streakline/internal/cli/settings"
	"github.com/julianstephens/streakline/internal/cli/system"
	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/logger"
)

type cliArgs struct {
	Version kong.VersionFlag
	Config  string `help:"Database file (.db or .json), PostgreSQL connection string, or \"postgres\" to read the connection string from STREAKLINE_DB_CONNECTION or the OS keyring." default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd       `cmd:"" help:"Initialize streakline storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and completions."`
	Calendar habits.CalendarCmd   `cmd:"" help:"Show the habit calendar."`
	Stats    habits.StatsCmd      `cmd:"" help:"Show streak statistics."`
	Billing  billing.BillingCmd   `cmd:"" help:"Manage the subscription and payments."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Inspect  system.DebugCmd      `cmd:"" name:"debug" help:"Inspect raw stored state."`
}

var CLI cliArgs

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, a calendar view and plan limits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	}
}

func main() {
	ctx := kong.Parse(&CLI, parserOptions()...)

	store, configDir, err := resolveProvider(CLI.Config)
	if err != nil {
		// Keyring commands must work before a connection string exists.
		if !strings.HasPrefix(ctx.Command(), "keyring") {
			fmt.Fprintln(os.Stderr, errors.Format(err))
			os.Exit(errors.ExitCode(err))
		}
		configDir, _ = defaultConfigDir()
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Quiet:     strings.HasPrefix(ctx.Command(), "tui"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "storage", fmt.Sprintf("%T", store), "log", logger.CurrentPath())

	appCtx := &cli.Context{Store: store}
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
