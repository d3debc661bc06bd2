package message

import (
	"database/sql"

	"github.com/google/wire"

	"social/internal/recipe"
)

func ProvideStorage(db *sql.DB) *PostgresStorage {
	return NewPostgresStorage(db)
}

func ProvideRepository(db *sql.DB, storage *PostgresStorage) Repository {
	return NewRepository(db, storage)
}

func ProvideUseCase(messages Repository, recipes recipe.Provider, access ConversationAccess) *UseCase {
	return NewUseCase(messages, recipes, access)
}

func ProvideJSONHandler(useCase *UseCase) *JSONHandler {
	return NewJSONHandler(useCase)
}

var Set = wire.NewSet(ProvideStorage, ProvideRepository, ProvideUseCase, ProvideJSONHandler)
