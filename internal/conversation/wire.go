package conversation

import (
	"database/sql"

	"github.com/google/wire"

	"social/internal/connection"
	"social/internal/group"
	"social/internal/message"
	"social/internal/recipe"
	"social/internal/user"
)

func ProvideStorage(db *sql.DB) *PostgresStorage {
	return NewPostgresStorage(db)
}

func ProvideRepository(
	db *sql.DB,
	storage *PostgresStorage,
	connections connection.Repository,
	groups group.Repository,
	messages message.Repository,
) Repository {
	return NewRepository(db, storage, connections, groups, messages)
}

func ProvideUseCase(
	conversations Repository,
	connections connection.Repository,
	groups group.Repository,
	messages message.Repository,
	users user.Repository,
	recipes recipe.Provider,
) *UseCase {
	return NewUseCase(conversations, connections, groups, messages, users, recipes)
}

func ProvideJSONHandler(useCase *UseCase) *JSONHandler {
	return NewJSONHandler(useCase)
}

var Set = wire.NewSet(
	ProvideStorage,
	ProvideRepository,
	ProvideUseCase,
	ProvideJSONHandler,
	wire.Bind(new(connection.ConversationStarter), new(*UseCase)),
	wire.Bind(new(group.ConversationStarter), new(*UseCase)),
	wire.Bind(new(message.ConversationAccess), new(*UseCase)),
)
