package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/localnerve/ductapedb/internal/database"
	"github.com/localnerve/ductapedb/internal/database/dbtest"
	"github.com/localnerve/ductapedb/internal/logger"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Start a migrated ductapedb database server in a container and print the
settings that reach it. The container is removed on interrupt.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

Environment:
  DB_TYPE   mysql, postgres or sqlserver
  DB_IMAGE  image to run, e.g. postgres:17

example
  devdb -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	dbType, imageName := os.Getenv("DB_TYPE"), os.Getenv("DB_IMAGE")
	if dbType == "" || imageName == "" {
		log.Fatalf("DB_TYPE and DB_IMAGE are required\n")
	}

	ctx := context.Background()
	if present, err := dbtest.ImagePresent(ctx, imageName); err == nil && !present {
		log.Printf("Image %s not found locally, pulling...\n", imageName)
	}

	srv, err := dbtest.StartServer(ctx, dbType, imageName)
	if err != nil {
		log.Fatalf("Failed to start %s: %v\n", dbType, err)
	}

	db, err := database.Connect(srv.Config, logger.NewNop())
	if err == nil {
		err = database.AutoMigrate(db)
		_ = database.Close(db)
	}
	if err != nil {
		_ = srv.Terminate(ctx)
		log.Fatalf("Failed to migrate %s: %v\n", dbType, err)
	}

	cfg := srv.Config
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigs
	log.Printf("Received signal: %v, terminating %s...\n", sig, dbType)
	if err := srv.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate: %v\n", err)
	}
}
