package constants

const (
	AppName            = "streakline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/streakline/streakline.db"
	ConnectionEnvVar   = "STREAKLINE_DB_CONNECTION"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys for persisted snapshots
	HabitStateKey   = "habits"
	BillingStateKey = "billing"
	SettingsKey     = "settings"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streakline-"
	BackupFileSuffix = ".db"
)
