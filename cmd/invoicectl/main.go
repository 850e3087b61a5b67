// Command invoicectl edits, numbers, shares and exports invoices stored as
// JSON state files, using the same service as the HTTP server.
package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "author and export invoices from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "suppress log output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("quiet") {
				log.SetOutput(io.Discard)
			}
			return nil
		},
		Commands: []*cli.Command{
			newCommand(),
			applyCommand(),
			totalsCommand(),
			numberCommand(),
			shareCommand(),
			openCommand(),
			exportCommand("pdf", "render the invoice as a PDF file"),
			exportCommand("print", "render the invoice as a printable HTML page"),
			mailCommand(),
		},
	}
}
