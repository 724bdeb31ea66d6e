// Package database provides database connectivity for the job site API.
//
// The Database interface is implemented by SurrealDB and held by every
// store in internal/repository. The process entry point owns the handle's
// lifecycle: it connects, applies the embedded migrations and closes the
// connection on shutdown.
//
// # Connection Management
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "jobsite",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "root",
//	})
//	if err := db.Connect(ctx); err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
//	    return err
//	}
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique index violation
//   - ErrConnection: Database connection failed
//   - ErrQuery: Statement failed
package database
