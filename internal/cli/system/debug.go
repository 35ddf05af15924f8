package system

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show the storage location and provider."`
	Keys      DebugKeysCmd      `cmd:"" help:"List stored snapshot keys."`
	Dump      DebugDumpCmd      `cmd:"" help:"Dump a raw snapshot (habits, billing or settings) as JSON."`
	DumpHabit DebugDumpHabitCmd `cmd:"" name:"dump-habit" help:"Dump one habit, by id or name, as JSON."`
}

func writeJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type DebugDBPathCmd struct {
	out io.Writer
}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(cmd.out, map[string]string{
		"path":     ctx.Store.GetConfigPath(),
		"provider": fmt.Sprintf("%T", ctx.Store),
	})
}

type DebugKeysCmd struct {
	out io.Writer
}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return err
	}
	keys, err := ctx.Store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return writeJSON(cmd.out, keys)
}

// DebugDumpCmd prints the snapshot exactly as stored, without the
// normalization the stores apply on load.
type DebugDumpCmd struct {
	Key string `arg:"" enum:"habits,billing,settings" help:"Snapshot to dump: habits, billing or settings."`

	out io.Writer
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Open(); err != nil {
		return err
	}
	switch cmd.Key {
	case constants.HabitStateKey, constants.BillingStateKey, constants.SettingsKey:
	default:
		return fmt.Errorf("unknown snapshot %q (expected habits, billing or settings)", cmd.Key)
	}

	data, ok, err := ctx.Store.Load(cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cmd.Key, err)
	}
	if !ok {
		return fmt.Errorf("no %s snapshot stored in %s", cmd.Key, ctx.Store.GetConfigPath())
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return fmt.Errorf("stored %s snapshot is not valid JSON: %w", cmd.Key, err)
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, pretty.String())
	return err
}

type DebugDumpHabitCmd struct {
	Ref string `arg:"" help:"Habit id or name."`

	out io.Writer
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	h, ok := ctx.Habits.Habit(cmd.Ref)
	if !ok {
		h, ok = ctx.Habits.FindByName(cmd.Ref)
	}
	if !ok {
		return fmt.Errorf("habit not found: %s", cmd.Ref)
	}
	return writeJSON(cmd.out, h)
}
