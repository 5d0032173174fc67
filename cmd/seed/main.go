package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophreach/internal/server"
	"github.com/dmitrijs2005/gophreach/internal/server/config"
	"github.com/dmitrijs2005/gophreach/internal/server/seed"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	svc := app.Services()
	if err := seed.New(svc.Users, svc.Templates, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
