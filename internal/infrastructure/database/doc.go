// Package database provides SQLite connectivity for Wayfinder Core.
//
// The database holds the route history log and its analytics; the floor
// plan itself is loaded from YAML and never stored here.
//
// Migrations are plain SQL files (YYYYMMDD_HHMMSS_name.up.sql plus an
// optional .down.sql) supplied as an fs.FS, normally the embedded
// migrations package:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
