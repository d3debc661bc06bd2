//go:build wireinject
// +build wireinject

package main

import (
	"database/sql"

	"github.com/google/wire"

	"social/config"
	"social/internal/connection"
	"social/internal/conversation"
	"social/internal/group"
	"social/internal/message"
	"social/internal/recipe"
	"social/internal/user"
)

var AppSet = wire.NewSet(
	user.Set,
	recipe.ProviderSet,
	connection.Set,
	group.Set,
	message.Set,
	conversation.Set,
	ProvideServer,
	NewApp,
)

func InitializeApp(cfg *config.Config, db *sql.DB) (*App, error) {
	wire.Build(AppSet)
	return &App{}, nil
}
