package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/learnhub/infra/initializer"
	"github.com/amirasaad/learnhub/pkg/app"
	"github.com/amirasaad/learnhub/pkg/config"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/service/rates"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  detect <ip>                 country and currency for an IP address
  rate <from> <to>            exchange rate between two currencies
  convert <amount> <currency> price a base-currency amount in currency
  symbol <currency>           display symbol and name
  currencies                  list supported currencies`

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return 0
	}
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(out, "Failed to load configuration:", err)
		return 1
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		fmt.Fprintln(out, "Failed to initialize dependencies:", err)
		return 1
	}
	defer deps.Close() //nolint: errcheck

	svc := app.New(deps, cfg).RatesService
	if err := execute(context.Background(), svc, args, out); err != nil {
		fmt.Fprintln(out, err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(out, usage)
		}
		return 1
	}
	return 0
}

func execute(ctx context.Context, svc *rates.Service, args []string, out io.Writer) error {
	need := func(n int, form string) error {
		if len(args) < n {
			return fmt.Errorf("%w: %s", errUsage, form)
		}
		return nil
	}

	switch args[0] {
	case "detect":
		if err := need(2, "detect <ip>"); err != nil {
			return err
		}
		d := svc.DetectCountryAndCurrency(ctx, args[1])
		fmt.Fprintf(out, "IP %s: country=%s currency=%s (%s) source=%s\n",
			args[1], d.CountryCode, d.CurrencyCode, svc.CurrencySymbol(d.CurrencyCode), d.Source)
	case "rate":
		if err := need(3, "rate <from> <to>"); err != nil {
			return err
		}
		from, to := money.NormalizeCode(args[1]), money.NormalizeCode(args[2])
		if !from.IsValid() || !to.IsValid() {
			return fmt.Errorf("invalid currency code: %s/%s", args[1], args[2])
		}
		r := svc.ExchangeRate(ctx, from, to)
		fmt.Fprintf(out, "1 %s = %s %s (source=%s)\n", r.From, money.RateString(r.Value), r.To, r.Source)
	case "convert":
		if err := need(3, "convert <amount> <currency>"); err != nil {
			return err
		}
		amount, err := money.Parse(args[1])
		if err != nil {
			return err
		}
		target, err := svc.ValidateTarget(args[2])
		if err != nil {
			return err
		}
		c := svc.ConvertAmount(ctx, amount, target)
		fmt.Fprintf(out, "%s %s = %s (rate %s, source=%s)\n",
			money.String(c.Amount), c.From, money.Format(c.Converted, svc.CurrencySymbol(c.To)),
			money.RateString(c.Rate), c.Source)
	case "symbol":
		if err := need(2, "symbol <currency>"); err != nil {
			return err
		}
		code := money.NormalizeCode(args[1])
		fmt.Fprintf(out, "%s: %s %s\n", code, svc.CurrencySymbol(code), svc.CurrencyDisplayName(code))
	case "currencies":
		for _, m := range svc.SupportedCurrencies() {
			fmt.Fprintf(out, "%s\t%s\t%s\n", m.Code, m.Symbol, m.Name)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return nil
}
