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
	"github.com/localnerve/roadmapdb/internal/testutil"
)

const usage = `
Run a roadmapdb database and service in containers until interrupted.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db ENGINE]

ENV_FILE_PATH: path to a .env file loaded before anything else
ENGINE:        mariadb or postgres, overrides DB_TYPE (default mariadb)

The service image is built from the repository Dockerfile unless
roadmapdb-test:latest already exists. TESTCONTAINERS_BUILD_CONTEXT points
at the repository root when running from elsewhere.

example
  testcontainers -f ./.env -db postgres
`

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var engine string
	flag.StringVar(&engine, "db", "", "database engine (mariadb or postgres)")
	flag.Parse()

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
	if engine != "" {
		os.Setenv("DB_TYPE", engine)
	}
	if os.Getenv("TESTCONTAINERS_BUILD_CONTEXT") == "" {
		os.Setenv("TESTCONTAINERS_BUILD_CONTEXT", ".")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	type startResult struct {
		tc  *testutil.TestContainers
		err error
	}
	started := make(chan startResult, 1)
	go func() {
		tc, err := testutil.CreateAllTestContainers(nil)
		started <- startResult{tc, err}
	}()

	var containers *testutil.TestContainers
	select {
	case res := <-started:
		if res.err != nil {
			log.Fatalf("Failed to create test containers: %v\n", res.err)
		}
		containers = res.tc
		log.Printf("%s service ready at %s (Ctrl-C to stop)\n", containers.DBType, containers.BaseURL)
		<-ctx.Done()
	case <-ctx.Done():
		log.Printf("Interrupted before startup finished, waiting for partial startup to clean up\n")
		if res := <-started; res.tc != nil {
			containers = res.tc
		}
	}

	log.Printf("Terminating test containers...\n")
	if containers != nil {
		containers.Terminate(nil)
	}
}
