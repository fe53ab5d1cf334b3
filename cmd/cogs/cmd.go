package cogs

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/starshine-sys/griffin/bot"
	"github.com/starshine-sys/griffin/cogs"
	"github.com/starshine-sys/griffin/plugin"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "cogs",
	Usage:  "List the cogs found in the cogs directory",
	Action: run,
}

func run(c *cli.Context) error {
	dir := c.String("cogs-dir")
	mgr := plugin.New(plugin.Options{Root: dir, Catalog: cogs.Catalog(&bot.Bot{})})

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tCOMPILED\tDISABLED\tDESCRIPTION")

	n := 0
	for d := range mgr.Discover() {
		n++

		kind := "file"
		if d.Dir {
			kind = "directory"
		}

		m, err := d.Manifest()
		desc := m.Description
		if err != nil {
			desc = "invalid manifest: " + err.Error()
		}

		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\n", d.Name, kind, mgr.Catalog().Has(d.Name), m.Disabled, desc)
	}

	err := tw.Flush()
	if err != nil {
		return err
	}

	if n == 0 {
		return cli.Exit("No cogs found in "+dir+".", 1)
	}
	return nil
}
