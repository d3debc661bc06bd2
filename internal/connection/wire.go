package connection

import (
	"database/sql"

	"github.com/google/wire"

	"social/internal/user"
)

func ProvideStorage(db *sql.DB) *PostgresStorage {
	return NewPostgresStorage(db)
}

func ProvideRepository(db *sql.DB, storage *PostgresStorage) Repository {
	return NewRepository(db, storage)
}

func ProvideUseCase(connections Repository, users user.Repository, conversations ConversationStarter) *UseCase {
	return NewUseCase(connections, users, conversations)
}

func ProvideJSONHandler(useCase *UseCase) *JSONHandler {
	return NewJSONHandler(useCase)
}

var Set = wire.NewSet(ProvideStorage, ProvideRepository, ProvideUseCase, ProvideJSONHandler)
