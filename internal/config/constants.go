package config

const (
	// DefaultDatabasePath is the default location of the SQLite database.
	DefaultDatabasePath = "./reader.db"
	// DefaultStorageDir is the default location of uploaded book payloads.
	DefaultStorageDir = "./uploads"
)
