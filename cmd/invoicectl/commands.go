package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/invoice-generator-service/internal/app"
	"github.com/ridwanfathin/invoice-generator-service/internal/config"
	"github.com/ridwanfathin/invoice-generator-service/internal/document"
	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
	"github.com/ridwanfathin/invoice-generator-service/internal/format"
	"github.com/ridwanfathin/invoice-generator-service/internal/model"
	"github.com/ridwanfathin/invoice-generator-service/internal/service"
	"github.com/ridwanfathin/invoice-generator-service/internal/sharetoken"
)

var stateFlag = &cli.StringFlag{
	Name:     "state",
	Aliases:  []string{"s"},
	Usage:    "invoice state `FILE`",
	Required: true,
}

func outFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: usage}
}

// withService loads configuration, wires the service and runs fn
func withService(c *cli.Context, fn func(svc *service.InvoiceService) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.Service.Shutdown()
	return explain(fn(a.Service))
}

// explain appends the last notice the session showed to a service error
func explain(err error) error {
	var invErr *service.InvoiceError
	if errors.As(err, &invErr) && len(invErr.Notices) > 0 {
		return fmt.Errorf("%w (%s)", err, invErr.Notices[len(invErr.Notices)-1].Message)
	}
	return err
}

func readState(path string) (domain.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.State{}, fmt.Errorf("read state: %w", err)
	}
	var s domain.State
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.State{}, fmt.Errorf("parse state %s: %w", path, err)
	}
	if s.Services == nil {
		s.Services = []domain.ServiceItem{}
	}
	return s, nil
}

func writeState(w io.Writer, path string, s domain.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if path == "" || path == "-" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "write a fresh invoice with the default form values",
		Flags: []cli.Flag{outFlag("destination `FILE` (stdout when omitted)")},
		Action: func(c *cli.Context) error {
			return writeState(c.App.Writer, c.String("out"), domain.NewState(time.Now()))
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "apply a JSON list of editor actions to an invoice",
		Flags: []cli.Flag{
			stateFlag,
			&cli.StringFlag{Name: "actions", Aliases: []string{"a"}, Usage: "actions `FILE`", Required: true},
		},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(c.String("actions"))
			if err != nil {
				return fmt.Errorf("read actions: %w", err)
			}
			var dtos []model.ActionDTO
			if err := json.Unmarshal(raw, &dtos); err != nil {
				return fmt.Errorf("parse actions: %w", err)
			}
			actions, err := model.ActionsToDomain(dtos)
			if err != nil {
				return err
			}

			return withService(c, func(svc *service.InvoiceService) error {
				res, err := svc.Apply(c.Context, s, actions)
				if err != nil {
					return err
				}
				for _, n := range res.Notices {
					fmt.Fprintf(c.App.ErrWriter, "[%s] %s\n", n.Kind, n.Message)
				}
				return writeState(c.App.Writer, c.String("state"), res.State)
			})
		},
	}
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "totals",
		Usage: "print subtotal, taxes and grand total",
		Flags: []cli.Flag{stateFlag},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			t := domain.ComputeTotals(s)
			w := c.App.Writer
			fmt.Fprintf(w, "Subtotal:    %s\n", format.Rupiah(t.Subtotal))
			if s.PPNEnabled {
				fmt.Fprintf(w, "PPN %s%%:     %s\n", format.Percent(s.PPNRate), format.Rupiah(t.PPN))
			}
			if s.PPhEnabled {
				fmt.Fprintf(w, "PPh %s%%:     -%s\n", format.Percent(s.PPhRate), format.Rupiah(t.PPh))
			}
			if s.Discount.IsPositive() {
				fmt.Fprintf(w, "Diskon:      -%s\n", format.Rupiah(s.Discount))
			}
			fmt.Fprintf(w, "Grand Total: %s\n", format.Rupiah(t.GrandTotal))
			return nil
		},
	}
}

func numberCommand() *cli.Command {
	return &cli.Command{
		Name:  "number",
		Usage: "issue the next invoice number and store it in the state file",
		Flags: []cli.Flag{stateFlag},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *service.InvoiceService) error {
				res, err := svc.NextNumber(c.Context, s)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, res.Number)
				return writeState(c.App.Writer, c.String("state"), res.State)
			})
		},
	}
}

func shareCommand() *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "print a link that carries the invoice",
		Flags: []cli.Flag{stateFlag},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *service.InvoiceService) error {
				res, err := svc.Share(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, res.URL)
				return nil
			})
		},
	}
}

func openCommand() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "decode a share link or token into a state file",
		ArgsUsage: "<link-or-token>",
		Flags:     []cli.Flag{outFlag("destination `FILE` (stdout when omitted)")},
		Action: func(c *cli.Context) error {
			arg := c.Args().First()
			if arg == "" {
				return cli.Exit("a share link or token is required", 2)
			}
			token := arg
			if t, ok, err := sharetoken.FromURL(arg); err == nil && ok {
				token = t
			}
			s, err := sharetoken.Decode(token)
			if err != nil {
				return err
			}
			return writeState(c.App.Writer, c.String("out"), s)
		},
	}
}

func exportCommand(name, usage string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{stateFlag, outFlag("output `FILE` (defaults to the export name)")},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *service.InvoiceService) error {
				ctx, cancel := context.WithTimeout(c.Context, time.Minute)
				defer cancel()

				res, err := svc.Export(ctx, s, document.Format(name))
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = res.Name
				}
				if err := os.WriteFile(out, res.Data, 0644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintln(c.App.Writer, out)
				if res.Location != "" {
					fmt.Fprintln(c.App.Writer, res.Location)
				}
				return nil
			})
		},
	}
}

func mailCommand() *cli.Command {
	return &cli.Command{
		Name:  "mail",
		Usage: "compose the invoice email and print its mailto link",
		Flags: []cli.Flag{
			stateFlag,
			&cli.BoolFlag{Name: "body", Usage: "print the message instead of the link"},
		},
		Action: func(c *cli.Context) error {
			s, err := readState(c.String("state"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *service.InvoiceService) error {
				res, err := svc.ComposeEmail(s)
				if err != nil {
					return err
				}
				if c.Bool("body") {
					fmt.Fprintf(c.App.Writer, "To: %s\nSubject: %s\n\n%s\n", res.Message.To, res.Message.Subject, res.Message.Body)
					return nil
				}
				fmt.Fprintln(c.App.Writer, res.Mailto)
				return nil
			})
		},
	}
}
