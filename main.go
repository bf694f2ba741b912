package main

import (
	"context"
	"log"
	"os"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		log.Fatal("failed to setup app configuration: ", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "client" {
		if err = RunClientCommand(context.Background(), config, os.Args[2:], os.Stdout); err != nil {
			log.Fatal("client command failed: ", err)
		}
		return
	}

	app, err := NewApp(config)
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
