package main

import (
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/brandkit/brandkit/internal/config"
	"github.com/brandkit/brandkit/internal/logger"
	"github.com/brandkit/brandkit/internal/migration"
	"github.com/brandkit/brandkit/internal/server"
	"github.com/brandkit/brandkit/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
