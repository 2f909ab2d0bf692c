package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smj9504/mj-estimate/internal/config"
	"github.com/smj9504/mj-estimate/internal/migration"
	"github.com/smj9504/mj-estimate/internal/observability"
	"github.com/smj9504/mj-estimate/internal/server"
	"github.com/smj9504/mj-estimate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
