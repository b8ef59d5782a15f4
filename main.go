package main

import (
	"os"
	"strings"

	"mdview/internal/config"
	"mdview/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))

	fileArg := initialFileArg(os.Args[1:])
	log.Info("Main", "starting mdview shell", map[string]interface{}{"file": fileArg})

	app := NewMDViewApp(cfg, log, fileArg)
	app.Run()
}

// initialFileArg picks the single positional file argument, skipping
// anything flag-shaped.
func initialFileArg(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return ""
}
