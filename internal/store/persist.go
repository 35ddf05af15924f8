package store

import (
	"fmt"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/storage"
)

var log = logger.Named("store")

// Persist restores both stores from p and then saves each store's snapshot
// after every change. Save failures are logged, never returned to the
// mutating caller. Call the returned function to stop saving.
func Persist(p storage.Provider, habits *HabitStore, billing *BillingStore) (func(), error) {
	var hs models.HabitState
	ok, err := storage.LoadJSON(p, constants.HabitStateKey, &hs)
	if err != nil {
		return nil, err
	}
	if ok {
		habits.Restore(hs)
	}

	var bs models.BillingState
	ok, err = storage.LoadJSON(p, constants.BillingStateKey, &bs)
	if err != nil {
		return nil, err
	}
	if ok {
		billing.Restore(bs)
	}

	stopHabits := habits.Subscribe(saver[models.HabitState](p, constants.HabitStateKey))
	stopBilling := billing.Subscribe(saver[models.BillingState](p, constants.BillingStateKey))

	return func() {
		stopHabits()
		stopBilling()
	}, nil
}

func saver[T any](p storage.Provider, key string) func(T) {
	return func(v T) {
		if err := storage.SaveJSON(p, key, v); err != nil {
			log.Warn("Failed to persist state", "key", key, "error", err)
		}
	}
}

// LoadSettings returns the saved settings, or defaults when none exist.
func LoadSettings(p storage.Provider) (models.Settings, error) {
	var s models.Settings
	if _, err := storage.LoadJSON(p, constants.SettingsKey, &s); err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.WithDefaults(), nil
}

func SaveSettings(p storage.Provider, s models.Settings) error {
	return storage.SaveJSON(p, constants.SettingsKey, s)
}
