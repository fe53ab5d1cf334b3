package bot

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/cogs"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/db"
	"github.com/starshine-sys/griffin/db/stats"
	"github.com/starshine-sys/griffin/web"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

// LoadConfig loads the configuration from the paths given on the command line.
func LoadConfig(c *cli.Context) (config.Config, error) {
	conf, err := config.Load(c.String("env"), c.String("config"), c.Bool("debug"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return conf, cli.Exit("Environment file "+c.String("env")+" not found.", 1)
		}
		return conf, cli.Exit(err.Error(), 1)
	}
	return conf, nil
}

// optional wraps a service that the bot can run without.
// Its error is logged instead of stopping the other services.
func optional(name string, fn func() error) func() error {
	return func() error {
		err := fn()
		if err != nil {
			log.Errorf("%v stopped: %v", name, err)
		}
		return nil
	}
}

func run(c *cli.Context) error {
	conf, err := LoadConfig(c)
	if err != nil {
		return err
	}

	// set up sentry
	if conf.Auth.Sentry != "" {
		log.Debug("setting up sentry")
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     conf.Auth.Sentry,
			Release: common.Version(),
		})
		if err != nil {
			log.Fatalf("setting up sentry: %v", err)
		}
		log.Debug("set up sentry")
	} else {
		log.Debugf("sentry DSN was not provided, not setting it up")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// the bot runs without a database, guild bookkeeping is skipped
	database := db.New(conf.Postgres)
	if conf.Postgres.Enabled() {
		err = database.Connect(ctx)
		if err != nil {
			log.Errorf("Postgresql: Couldn't connect to %v: %v", database.Addr(), err)
		}
	} else {
		log.Warn("Postgresql: PSQL_HOST is not set, running without a database")
	}
	defer database.Close()

	st := stats.New(conf.Auth.Influx)

	b := bot.New(conf, database, st)
	b.SetupModules(c.String("cogs-dir"), cogs.Catalog(b))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.Run(gctx)
		return nil
	})

	if c.Bool("watch") {
		g.Go(optional("Cog watcher", func() error {
			return b.Manager.Watch(gctx, 0, nil)
		}))
	}

	if addr := c.String("http"); addr != "" {
		s := web.New(web.Options{
			Cogs:    b.Manager,
			Surface: b.Surface,
			Counts:  conf.Counts,
			Start:   conf.Start,
			DB:      database,
			Status:  func() string { return string(b.Status()) },
			Guilds:  b.GuildCount,
		})
		g.Go(optional("Status API", func() error {
			return s.Run(gctx, addr)
		}))
	}

	err = b.Open(ctx)
	if err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	defer func() {
		err := b.Close()
		if err != nil {
			log.Errorf("closing gateway connection: %v", err)
		}
	}()

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	<-gctx.Done()
	log.Infof("Interrupt signal received. Shutting down...")
	cancel()

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
