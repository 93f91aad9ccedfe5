package constants

const (
	// Config file keys
	SettingDatabase = "database"
	SettingTimezone = "timezone"
	SettingOwner    = "owner"
	SettingDebug    = "debug"

	// Default Settings Values
	DefaultTimezone      = "Local" // Use system local timezone by default
	DefaultBackupEncrypt = false

	// Environment overrides
	EnvConfigPath = "RINDFUL_CONFIG"
	EnvDBConn     = "RINDFUL_DB_CONNECTION"

	// EnvBackupPassphrase supplies the snapshot passphrase non-interactively.
	EnvBackupPassphrase = "RINDFUL_BACKUP_PASSPHRASE"
)
