package cmd

import (
	"os"

	"github.com/starshine-sys/griffin/cmd/bot"
	"github.com/starshine-sys/griffin/cmd/cogs"
	"github.com/starshine-sys/griffin/cmd/migrate"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:    "griffin",
	Usage:   "Discord bot with loadable cogs",
	Version: common.Version(),

	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug mode",
		},
		&cli.BoolFlag{
			Name:    "stream",
			Aliases: []string{"s"},
			Usage:   "Enable console stream",
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "Path to the .env file",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config.json file",
			Value: "config.json",
		},
		&cli.StringFlag{
			Name:  "logs-path",
			Usage: "Path to the logs file",
			Value: "logs/bot.log",
		},
		&cli.StringFlag{
			Name:  "cogs-dir",
			Usage: "Directory to load cogs from",
			Value: "cogs",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Reload cogs when their manifest changes",
		},
		&cli.StringFlag{
			Name:  "http",
			Usage: "Serve the status API on this address, for example :8080",
		},
	},

	Before: setupLogging,
	After: func(*cli.Context) error {
		log.Sync()
		return nil
	},

	Action: bot.Command.Action,
	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
		cogs.Command,
	},
}

func setupLogging(c *cli.Context) error {
	err := log.Init(log.Options{
		Path:   c.String("logs-path"),
		Debug:  c.Bool("debug"),
		Stream: c.Bool("stream"),
	})
	if err != nil {
		return cli.Exit("Setting up logging: "+err.Error(), 1)
	}
	return nil
}

func Run() error {
	return app.Run(os.Args)
}
