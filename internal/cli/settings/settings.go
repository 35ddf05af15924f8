package settings

import (
	"fmt"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/store"
	"github.com/julianstephens/streakline/internal/utils"
)

type SettingsCmd struct {
	List SettingsListCmd `cmd:"" help:"List current settings." default:"1"`
	Get  SettingsGetCmd  `cmd:"" help:"Print one setting."`
	Set  SettingsSetCmd  `cmd:"" help:"Change one setting."`
}

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	values := models.SettingsToMap(ctx.Settings)
	fmt.Println("Current Settings:")
	for _, k := range models.SettingKeys() {
		fmt.Printf("  %-14s %s\n", k, values[k])
	}
	return nil
}

type SettingsGetCmd struct {
	Key string `arg:"" help:"Setting name."`
}

func (c *SettingsGetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	v, ok := models.SettingsToMap(ctx.Settings)[c.Key]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", c.Key, models.SettingKeys())
	}
	fmt.Println(v)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if c.Key == constants.SettingTimezone && !utils.ValidateTimezone(c.Value) {
		return fmt.Errorf("invalid timezone %q", c.Value)
	}

	updated := ctx.Settings
	if err := updated.Set(c.Key, c.Value); err != nil {
		return err
	}
	if err := store.SaveSettings(ctx.Store, updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Settings = updated

	if c.Key == constants.SettingHabitLimit {
		ctx.Billing.SetHabitLimit(updated.HabitLimit)
	}

	fmt.Printf("Set %s = %s\n", c.Key, c.Value)
	return nil
}
