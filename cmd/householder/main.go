package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/householderhq/householder/internal/core/domain"
	portsrepo "github.com/householderhq/householder/internal/core/ports/repositories"
	portssvc "github.com/householderhq/householder/internal/core/ports/services"
	"github.com/householderhq/householder/internal/core/services"
	"github.com/householderhq/householder/internal/dto"
	"github.com/householderhq/householder/internal/platform/config"
	"github.com/householderhq/householder/internal/repositories/storage"
	"github.com/householderhq/householder/internal/utils"
)

const usage = `householder - household finance ledger

Usage:
  householder <command> [flags]

Commands:
  accounts               List the current user's accounts
  add-account            Open a new account
  transfer               Move money between accounts
  transfers              Show the transfer log
  tx add|list|rm         Manage household ledger entries
  calendar               Show a monthly summary with daily totals
  day                    Show one day's ledger entries
  users                  List registered users
  register               Register a user
  login|logout|whoami    Manage the session user
`

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var store portsrepo.KVStore
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Warn("Failed to create data directory, falling back to in-memory store",
			slog.String("error", err.Error()))
		store = storage.NewMemoryStore()
	} else {
		sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath())
		if err != nil {
			logger.Warn("Failed to open store, falling back to in-memory store",
				slog.String("error", err.Error()))
			store = storage.NewMemoryStore()
		} else {
			defer func() {
				if cerr := sqliteStore.Close(); cerr != nil {
					logger.Error("Error closing store", slog.String("error", cerr.Error()))
				}
			}()
			store = sqliteStore
		}
	}

	container := services.NewServiceContainer(cfg, store)
	ctx := services.ContextWithLogger(context.Background(), logger)

	app := &cli{cfg: cfg, services: container}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type cli struct {
	cfg      *config.Config
	services *portssvc.ServiceContainer
}

// currentUser resolves the session user and prepares their partition:
// interrupted cross-user transfers are reconciled first, then starter
// accounts are seeded if the partition is empty.
func (c *cli) currentUser(ctx context.Context) (string, error) {
	userID := c.services.Session.Current(ctx)

	if _, err := c.services.Transfer.ReconcileTransfers(ctx, userID); err != nil {
		return "", err
	}
	if c.cfg.SeedAccounts {
		if _, err := c.services.Ledger.EnsureSeedAccounts(ctx, userID); err != nil {
			return "", err
		}
	}
	return userID, nil
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "accounts":
		return c.listAccounts(ctx)
	case "add-account":
		return c.addAccount(ctx, args[1:])
	case "transfer":
		return c.transfer(ctx, args[1:])
	case "transfers":
		return c.listTransfers(ctx)
	case "tx":
		return c.tx(ctx, args[1:])
	case "calendar":
		return c.calendar(ctx, args[1:])
	case "day":
		return c.day(ctx, args[1:])
	case "users":
		return c.listUsers(ctx)
	case "register":
		return c.register(ctx, args[1:])
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		return c.services.Session.Clear(ctx)
	case "whoami":
		fmt.Println(c.services.Session.Current(ctx))
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *cli) listAccounts(ctx context.Context) error {
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	accounts, err := c.services.Ledger.GetAccounts(ctx, userID)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		fmt.Printf("%s  %-30s  %s\n", account.ID, account.Name, utils.FormatAmount(account.Balance, account.Currency))
	}
	return nil
}

func (c *cli) addAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-account", flag.ContinueOnError)
	name := fs.String("name", "", "account display name")
	balance := fs.String("balance", "", "initial balance (whole amount, default 0)")
	currency := fs.String("currency", "", "currency code (default KRW)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	account, err := c.services.Ledger.AddAccount(ctx, userID, dto.AddAccountRequest{
		Name:     *name,
		Balance:  *balance,
		Currency: *currency,
	})
	if err != nil {
		return err
	}
	fmt.Printf("opened %s  %s  %s\n", account.ID, account.Name, utils.FormatAmount(account.Balance, account.Currency))
	return nil
}

func (c *cli) transfer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ContinueOnError)
	from := fs.String("from", "", "source account id")
	to := fs.String("to", "", "destination account id")
	toUser := fs.String("to-user", "", "destination user id (defaults to yourself)")
	amount := fs.String("amount", "", "amount to move")
	memo := fs.String("memo", "", "optional memo")
	asExpense := fs.Bool("expense", false, "also record an expense ledger entry")
	category := fs.String("category", "", "expense category for -expense")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	record, err := c.services.Transfer.Transfer(ctx, userID, dto.TransferRequest{
		FromAccountID:   *from,
		ToUserID:        *toUser,
		ToAccountID:     *to,
		Amount:          *amount,
		Memo:            *memo,
		RecordAsExpense: *asExpense,
		ExpenseCategory: *category,
	})
	if err != nil {
		return err
	}

	fmt.Printf("transferred %s (%s)\n", utils.FormatWon(record.Amount), record.ID)
	if record.RecordAsExpense && !record.ExpenseRecorded {
		fmt.Printf("warning: expense entry failed: %s\n", record.ExpenseError)
	}
	return nil
}

func (c *cli) listTransfers(ctx context.Context) error {
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	transfers, err := c.services.Ledger.GetTransfers(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		direction := t.FromAccountID + " -> " + t.ToAccountID
		if t.IsExternal {
			direction = t.FromAccountID + " -> " + t.ToUserID + "/" + t.ToAccountID
		}
		fmt.Printf("%s  %s  %-12s  %s\n", t.CreatedAt.Format("2006-01-02 15:04"), direction, utils.FormatWon(t.Amount), t.Memo)
	}
	return nil
}

func (c *cli) tx(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tx add|list|rm")
	}
	switch args[0] {
	case "add":
		return c.txAdd(ctx, args[1:])
	case "list":
		return c.txList(ctx)
	case "rm":
		return c.txRemove(ctx, args[1:])
	default:
		return fmt.Errorf("unknown tx subcommand %q", args[0])
	}
}

func (c *cli) txAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx add", flag.ContinueOnError)
	date := fs.String("date", time.Now().Format(domain.DateLayout), "entry date (YYYY-MM-DD)")
	txType := fs.String("type", string(domain.Expense), "income or expense")
	amount := fs.String("amount", "", "amount")
	category := fs.String("category", "", "category label (default etc)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	tx, err := c.services.Transaction.AddTransaction(ctx, userID, dto.AddTransactionRequest{
		Date:     *date,
		Type:     *txType,
		Amount:   *amount,
		Category: *category,
	})
	if err != nil {
		return err
	}
	fmt.Printf("recorded %s  %s %s  %s (%s)\n", tx.Date, tx.Type, utils.FormatWon(tx.Amount), tx.Category, tx.ID)
	return nil
}

func (c *cli) txList(ctx context.Context) error {
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	transactions, err := c.services.Transaction.ListTransactions(ctx, userID)
	if err != nil {
		return err
	}
	for _, tx := range transactions {
		fmt.Printf("%s  %-7s  %-12s  %-20s  %s\n", tx.Date, tx.Type, utils.FormatWon(tx.Amount), tx.Category, tx.ID)
	}
	return nil
}

func (c *cli) txRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tx rm <transaction-id>")
	}
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	removed, err := c.services.Transaction.RemoveTransaction(ctx, userID, args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no transaction with id %s", args[0])
	}
	fmt.Println("removed", args[0])
	return nil
}

func (c *cli) calendar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	now := time.Now()
	year := fs.Int("year", now.Year(), "calendar year")
	month := fs.Int("month", int(now.Month()), "calendar month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *month < 1 || *month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}

	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	summary, err := c.services.Calendar.MonthSummary(ctx, userID, *year, time.Month(*month))
	if err != nil {
		return err
	}
	daily, err := c.services.Calendar.DailySummary(ctx, userID, *year, time.Month(*month))
	if err != nil {
		return err
	}

	fmt.Printf("%04d-%02d  income %s  expense %s", summary.Year, summary.Month,
		utils.FormatWon(summary.Income), utils.FormatWon(summary.Expense))
	if summary.ExpenseDelta != 0 {
		fmt.Printf("  (%+d vs prior month)", summary.ExpenseDelta)
	}
	fmt.Println()
	if summary.TopExpense != nil {
		fmt.Printf("top expense: %s %s\n", summary.TopExpense.Category, utils.FormatWon(summary.TopExpense.Amount))
	}
	for day := 1; day <= 31; day++ {
		totals, ok := daily[day]
		if !ok {
			continue
		}
		fmt.Printf("  %02d  +%s  -%s  net %s\n", day,
			utils.FormatWon(totals.Income), utils.FormatWon(totals.Expense), utils.FormatWon(totals.Net))
	}
	return nil
}

func (c *cli) day(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: day <YYYY-MM-DD>")
	}
	userID, err := c.currentUser(ctx)
	if err != nil {
		return err
	}
	transactions, err := c.services.Calendar.DayTransactions(ctx, userID, args[0])
	if err != nil {
		return err
	}
	for _, tx := range transactions {
		fmt.Printf("%-7s  %-12s  %-20s  %s\n", tx.Type, utils.FormatWon(tx.Amount), tx.Category, tx.ID)
	}
	return nil
}

func (c *cli) listUsers(ctx context.Context) error {
	users, err := c.services.User.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		fmt.Printf("%-20s  %-30s  %s\n", user.UserID, user.Name, user.Email)
	}
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := c.services.User.RegisterUser(ctx, dto.RegisterUserRequest{
		Name:  *name,
		Email: *email,
	})
	if err != nil {
		return err
	}
	fmt.Println("registered", user.UserID)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <user-id>")
	}
	userID, err := c.services.Session.SetCurrent(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println("logged in as", userID)
	return nil
}
