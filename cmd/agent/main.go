package main

import (
	"context"
	"log"
	"os"

	"github.com/softgatehq/softgate/internal/agent/cli"
	"github.com/softgatehq/softgate/internal/agent/config"
	"github.com/softgatehq/softgate/internal/buildinfo"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
