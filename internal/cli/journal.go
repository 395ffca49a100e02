package cli

import (
	"fmt"

	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

// openDB opens and migrates the journal database.
func openDB() (*storage.DB, error) {
	db, err := storage.Open(settings.DBPath, logger)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// loadStateFile loads the state file from the config directory.
func loadStateFile() (*recorder.StateFile, error) {
	sf, err := recorder.NewStateFile(recorder.StatePath(configDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return sf, nil
}

// openJournal starts a journal session when the journal is enabled. Both
// return values are nil when it is disabled.
func openJournal(mode string, sf *recorder.StateFile) (*storage.DB, *recorder.Session, error) {
	if !settings.Journal.Enabled {
		return nil, nil, nil
	}

	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	session, err := recorder.NewSession(db, sf, mode, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, session, nil
}
