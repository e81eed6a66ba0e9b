package main

import (
	"context"
	"flag"
	"os"

	"github.com/ob6160/Erosion1D/config"
	"github.com/ob6160/Erosion1D/driver"
	"github.com/xlab/closer"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("erosion: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	doneC := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-doneC
	})

	err = driver.Run(ctx, cfg, os.Stdout, os.Stderr)
	close(doneC)
	if err != nil {
		config.Exitf("erosion: %v", err)
	}
	closer.Close()
}
