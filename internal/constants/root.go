package constants

const (
	AppName            = "rindful"
	DefaultKeyringUser = "database-connection"
	OwnerKeyringUser   = "owner-id"
	DefaultConfigDir   = "~/.config/rindful"
	DefaultConfigFile  = "~/.config/rindful/config.toml"
	DefaultDBPath      = "~/.config/rindful/rindful.db"
	Version            = "v0.3.0"

	// LocalOwnerID is the identity used when no authenticated owner is available.
	LocalOwnerID = "local_user"

	// Backup constants
	MaxBackups          = 14
	BackupDirName       = "backups"
	BackupFilePrefix    = "rindful-"
	BackupFileSuffix    = ".db"
	EncryptedFileSuffix = ".age"

	// WriterLockfileName guards bulk mutations against a second running writer.
	WriterLockfileName = "rindful-writer.lock"

	// Import formats
	FormatCSV  = "csv"
	FormatJSON = "json"

	// Ratings are stored on a 1-5 scale.
	MinRating = 1
	MaxRating = 5

	// NotApplicable is written for an absent rating in exports.
	NotApplicable = "N/A"

	// DaysPerWeek is the size of a week bucket.
	DaysPerWeek = 7

	// TaskLookbackDays is the window used for task progress and the daily reset.
	TaskLookbackDays = 7
)
