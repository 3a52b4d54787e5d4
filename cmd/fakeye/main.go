package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/fakeye/internal/buildinfo"
	"github.com/dmitrijs2005/fakeye/internal/cli"
	"github.com/dmitrijs2005/fakeye/internal/config"
	"github.com/dmitrijs2005/fakeye/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, logging.Default())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
