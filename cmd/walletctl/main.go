// walletctl is a small command-line driver for the wallet client flows.
// It talks to a running simulator, keeps its session in a local file,
// and walks the deposit and conversion wizards end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adesokan/walletcore/api"
	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/session"
	"github.com/adesokan/walletcore/utils"
	"github.com/adesokan/walletcore/wallet"
)

func main() {
	cfg := config.Load()
	utils.InitLogger()

	baseURL := flag.String("api", cfg.APIBaseURL, "simulator base URL")
	sessionFile := flag.String("session", cfg.SessionFile, "session file path")
	sessionRedis := flag.Bool("session-redis", false, "keep the session in redis instead of a file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var persister session.Persister = session.NewFilePersister(*sessionFile)
	if *sessionRedis {
		redisConn, err := utils.NewRedis(&cfg)
		if err != nil {
			fatal("connect to redis: %v", err)
		}
		defer func() { _ = redisConn.Close() }()
		persister = session.NewRedisPersister(redisConn.GetClient(), cfg.SessionKey)
	}

	store := session.NewStore(persister)
	if err := store.Restore(ctx); err != nil {
		fatal("restore session: %v", err)
	}

	client := api.New(*baseURL, api.WithToken(store.Token()))

	var err error
	switch args[0] {
	case "login":
		err = runLogin(ctx, store, client, args[1:])
	case "logout":
		err = store.Logout(ctx)
	case "status":
		err = runStatus(store)
	case "rate":
		err = runRate(ctx, client)
	case "deposit":
		err = runDeposit(ctx, cfg, store, client, args[1:])
	case "convert":
		err = runConvert(ctx, store, client, args[1:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fatal("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: walletctl [flags] <command>

commands:
  login <email> <password>   authenticate and persist the session
  logout                     clear the persisted session
  status                     show the logged-in user and balances
  rate                       show the current NGN/USD rate
  deposit <amount>           fund by bank transfer and verify arrival
  convert <amount>           convert naira to dollars`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireAuth(store *session.Store) error {
	if !store.IsAuthenticated() {
		return fmt.Errorf("not logged in, run walletctl login first")
	}
	return nil
}

func runLogin(ctx context.Context, store *session.Store, client *api.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: walletctl login <email> <password>")
	}

	user, token, err := client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := store.Login(ctx, user, token); err != nil {
		return err
	}

	fmt.Printf("logged in as %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
	return nil
}

func runStatus(store *session.Store) error {
	user := store.CurrentUser()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}

	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("  NGN balance: %s\n", user.NGNBalance())
	fmt.Printf("  USD balance: %s\n", user.USDTBalance())
	fmt.Printf("  tier: %s\n", user.Tier)
	return nil
}

func runRate(ctx context.Context, client *api.Client) error {
	rate, err := client.GetExchangeRate(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("1 USD = %s NGN\n", rate)
	return nil
}

func runDeposit(ctx context.Context, cfg config.Config, store *session.Store, client *api.Client, args []string) error {
	if err := requireAuth(store); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: walletctl deposit <amount>")
	}

	pollerCfg := wallet.PollerConfig{
		PollInterval:     cfg.PollInterval,
		CountdownBudget:  cfg.CountdownBudget,
		ExtendedInterval: cfg.ExtendedInterval,
		ExtendedBudget:   cfg.ExtendedBudget,
	}

	w := wallet.NewDepositWizard(store, client, pollerCfg)
	defer w.Teardown()

	w.SetAmount(args[0])
	if msg := w.InlineError(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	breakdown := w.Fees()
	fmt.Printf("gross %s, fee %s, you receive %s\n", args[0], breakdown.Total, breakdown.Net)

	if err := w.Continue(); err != nil {
		return err
	}

	instructions, err := w.BankInstructions()
	if err != nil {
		return err
	}
	fmt.Printf("transfer to %s, account %s (%s)\n",
		instructions.BankName, instructions.AccountNumber, instructions.AccountName)
	fmt.Println("waiting for the transfer to arrive...")

	if err := w.Confirm(ctx); err != nil {
		return err
	}

	user := store.CurrentUser()
	fmt.Printf("deposit confirmed, new NGN balance: %s\n", user.NGNBalance())
	return nil
}

func runConvert(ctx context.Context, store *session.Store, client *api.Client, args []string) error {
	if err := requireAuth(store); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: walletctl convert <amount>")
	}

	w := wallet.NewConversionWizard(store, client)
	if err := w.LoadRate(ctx); err != nil {
		return err
	}

	w.SetAmount(args[0])
	if msg := w.InlineError(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	rate, _ := w.Rate()
	breakdown := w.Fees()
	fmt.Printf("rate 1 USD = %s NGN, fee %s, you receive %s\n", rate, breakdown.Total, breakdown.Net)

	if err := w.Continue(); err != nil {
		return err
	}
	if err := w.Confirm(ctx); err != nil {
		return err
	}

	user := store.CurrentUser()
	fmt.Printf("conversion complete, balances: %s / %s\n",
		money.NewMoney(user.AccountBalance, money.NGN),
		money.NewMoney(user.USDBalance, money.USD))
	return nil
}
