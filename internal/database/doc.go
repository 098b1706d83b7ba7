// Package database opens the library's SQLite store and keeps its schema
// current.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, AutoMigrate
//	├── migrations.go    # Versioned data migrations, stale path cleanup
//	├── books/           # Book catalogue and reading progress
//	├── authors/         # Author records, created on first book add
//	└── lists/           # Reading lists and their ordered entries
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./library.db", database.DefaultSettings())
//
//	booksRepo := books.NewRepository(db.DB, time.Now)
//	listsRepo := lists.NewRepository(db.DB, time.Now)
//
//	added, err := booksRepo.AddBook(&entities.Book{ID: "gutenberg-84", Title: "Frankenstein"})
//	id, err := listsRepo.CreateList("Summer", "")
//
// Callers outside this tree go through library.Store, which owns one
// instance of each repository.
//
// # Schema
//
// Tables keep the names the reader has always used (books_tb, authors_tb,
// reading_lists_tb, reading_list_entries_tb) so existing databases open
// without conversion. AutoMigrate only adds; columns are never dropped.
// Applied data migrations are recorded in schema_versions.
package database
