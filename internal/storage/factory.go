package storage

// NewStore creates a new SQLite-backed store
func NewStore(dataDir string) (Store, error) {
	return NewSQLiteStore(dataDir)
}
