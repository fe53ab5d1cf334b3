package migrate

import (
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/db"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "migrate",
	Usage:  "Run migrations manually",
	Action: run,
}

func run(c *cli.Context) error {
	conf, err := config.LoadPostgres(c.String("env"))
	if err != nil {
		return cli.Exit("Reading configuration: "+err.Error(), 1)
	}

	if !conf.Enabled() {
		return cli.Exit("PSQL_HOST is not set in "+c.String("env")+".", 1)
	}

	err = db.RunMigrations(db.New(conf).DSN())
	if err != nil {
		log.Errorf("Running migrations: %v", err)
		return cli.Exit("Running migrations failed.", 1)
	}

	log.Info("Successfully ran migrations!")
	return nil
}
