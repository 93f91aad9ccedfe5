package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used in exports (HH:MM)
	TimeFormat = "15:04"

	// BackupTimestampFormat is used in backup file names
	BackupTimestampFormat = "20060102-1504"

	// BackupTimestampFormatSeconds is used when a minute-precision name is taken
	BackupTimestampFormatSeconds = "20060102-150405"
)
