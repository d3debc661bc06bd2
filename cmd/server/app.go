package main

import (
	"social/config"
	"social/internal/api"
	"social/internal/connection"
	"social/internal/conversation"
	"social/internal/group"
	"social/internal/message"
	"social/internal/user"
)

type App struct {
	Server *api.Server
}

func ProvideServer(
	cfg *config.Config,
	users *user.JSONHandler,
	connections *connection.JSONHandler,
	groups *group.JSONHandler,
	messages *message.JSONHandler,
	conversations *conversation.JSONHandler,
) *api.Server {
	return api.NewServer(cfg, users, connections, groups, messages, conversations)
}

func NewApp(server *api.Server) *App {
	return &App{Server: server}
}
