package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/derktes/ir-scrutinizer/config"
	"github.com/derktes/ir-scrutinizer/server/server"
)

func main() {
	configFile := flag.String("config", "", "Specifies a YAML configuration file")
	address := flag.String("addr", "", "Overrides the listen address, e.g. :8080")
	debug := flag.Bool("debug", false, "Enables verbose logging")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *debug {
		cfg.Logging.Debug = true
	}
	cfg.Print()

	s, err := server.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.Start(ctx); err != nil {
		log.Fatal(err)
	}
}
