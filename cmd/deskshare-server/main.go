package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/deskshare-go/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp creates the CLI application. Serving is the default action.
func newApp() *cli.App {
	return &cli.App{
		Name:    "deskshare-server",
		Usage:   "Share this screen with one remote browser",
		Version: buildinfo.String(),
		Flags:   serveFlags(),
		Action:  serve,
		Commands: []*cli.Command{
			statusCommand(),
		},
	}
}

// serveFlags returns the flags of the default action. Each one overrides
// the matching config key only when set.
func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
			EnvVars: []string{"DESKSHARE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address (server.http.addr)",
			EnvVars: []string{"DESKSHARE_ADDR"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error (log.level)",
			EnvVars: []string{"DESKSHARE_LOG_LEVEL"},
		},
		&cli.IntFlag{
			Name:    "monitor",
			Aliases: []string{"m"},
			Usage:   "Monitor to capture at startup, 1-based (capture.monitor)",
			EnvVars: []string{"DESKSHARE_MONITOR"},
		},
	}
}

// flagOverrides maps the set flags onto config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.http.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	if c.IsSet("monitor") {
		overrides["capture.monitor"] = c.Int("monitor")
	}
	return overrides
}
