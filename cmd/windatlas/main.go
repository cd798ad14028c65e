package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/windatlas/windatlas/internal/app"
	"github.com/windatlas/windatlas/internal/constants"
	"github.com/windatlas/windatlas/internal/log"
	"github.com/windatlas/windatlas/internal/scheduler"
	"github.com/windatlas/windatlas/pkg/config"
)

func main() {
	mode := flag.String("mode", "scheduler", "Run mode:\n\t\t\t  scheduler: periodic pipeline loop\n\t\t\t  manual: one-shot extract+aggregate for -date/-cycle\n\t\t\t  serve: query-serving HTTP API")
	cfgFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	date := flag.String("date", "", "Forecast date (YYYYMMDD) for manual mode; defaults to the latest published cycle")
	cycle := flag.String("cycle", "", "Forecast cycle (00, 06, 12, 18) for manual mode")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("windatlas %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	filename, _ := filepath.Abs(*cfgFile)
	provider := config.NewYAMLProvider(filename)
	if _, err := provider.LoadConfig(); err != nil {
		log.Errorf("Failed to load configuration. Did you pass the -config flag? Run with -h for help: %v", err)
		os.Exit(1)
	}

	application := app.New(provider, log.GetSugaredLogger())
	ctx := context.Background()

	var err error
	switch *mode {
	case "scheduler":
		err = application.RunScheduler(ctx)
	case "manual":
		runDate, runCycle := *date, *cycle
		if runDate == "" && runCycle == "" {
			runDate, runCycle = scheduler.TargetCycle(time.Now())
			log.Infof("no cycle given; targeting latest published cycle %s/%s", runDate, runCycle)
		}
		if runDate == "" || runCycle == "" {
			log.Error("manual mode requires both -date and -cycle (or neither)")
			os.Exit(1)
		}
		err = application.RunOnce(ctx, runDate, runCycle)
	case "serve":
		err = application.RunServer(ctx)
	default:
		log.Errorf("unsupported mode: %s. Use 'scheduler', 'manual', or 'serve'", *mode)
		os.Exit(1)
	}

	if err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}
