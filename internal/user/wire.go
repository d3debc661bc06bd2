package user

import (
	"database/sql"

	"github.com/google/wire"
)

func ProvideStorage(db *sql.DB) *PostgresStorage {
	return NewPostgresStorage(db)
}

func ProvideRepository(storage *PostgresStorage) Repository {
	return NewRepository(storage)
}

func ProvideJSONHandler(users Repository) *JSONHandler {
	return NewJSONHandler(users)
}

var Set = wire.NewSet(ProvideStorage, ProvideRepository, ProvideJSONHandler)
