package main

import (
	"context"

	"github.com/sebak/authd/internal/client/cli"
	"github.com/sebak/authd/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
