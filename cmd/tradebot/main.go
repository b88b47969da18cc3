package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"tradebot/internal/auth"
	"tradebot/internal/config"
	"tradebot/internal/logging"
	"tradebot/internal/orders"
	"tradebot/internal/rest"
	"tradebot/internal/validate"
)

const version = "1.0.0"

const (
	exitOK        = 0
	exitError     = 1
	exitInterrupt = 130
)

type cliArgs struct {
	symbol         string
	side           string
	orderType      string
	quantity       string
	price          string
	logLevel       string
	testConnection bool
	showVersion    bool
}

func parseArgs(args []string) (*cliArgs, error) {
	fs := flag.NewFlagSet("tradebot", flag.ContinueOnError)

	a := &cliArgs{}
	fs.StringVar(&a.symbol, "symbol", "", "Trading symbol (e.g., BTCUSDT, ETHUSDT)")
	fs.StringVar(&a.symbol, "s", "", "Trading symbol (shorthand)")
	fs.StringVar(&a.side, "side", "", "Order side: BUY or SELL")
	fs.StringVar(&a.side, "d", "", "Order side (shorthand)")
	fs.StringVar(&a.orderType, "type", "", "Order type: MARKET or LIMIT")
	fs.StringVar(&a.orderType, "t", "", "Order type (shorthand)")
	fs.StringVar(&a.quantity, "quantity", "", "Order quantity (e.g., 0.001)")
	fs.StringVar(&a.quantity, "q", "", "Order quantity (shorthand)")
	fs.StringVar(&a.price, "price", "", "Order price (required for LIMIT orders)")
	fs.StringVar(&a.price, "p", "", "Order price (shorthand)")
	fs.StringVar(&a.logLevel, "log-level", "info", "Logging level: debug, info, warn, error")
	fs.BoolVar(&a.testConnection, "test-connection", false, "Test API connection and exit")
	fs.BoolVar(&a.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return a, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a, err := parseArgs(args)
	if err != nil {
		// flag already printed usage
		return exitError
	}

	if a.showVersion {
		fmt.Printf("tradebot v%s\n", version)
		return exitOK
	}

	logger, logPath, err := logging.Setup(getEnv("LOG_DIR", "logs"), a.logLevel)
	if err != nil {
		fmt.Printf("\n✗ Failed to set up logging: %v\n\n", err)
		return exitError
	}

	fmt.Printf("\n📝 Logging to: %s\n\n", logPath)

	// Map SIGINT/SIGTERM to the conventional interrupt exit code
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-interrupt
		fmt.Println("\n\n⚠ Operation cancelled by user")
		logger.Warn().Str("signal", sig.String()).Msg("Operation cancelled by user")
		os.Exit(exitInterrupt)
	}()

	logger.Info().Msg("Loading API credentials")
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("\n✗ Configuration Error: %v\n\n", err)
		logger.Error().Err(err).Msg("Configuration error")
		return exitError
	}

	signer := auth.NewSignerWithRecvWindow(cfg.APIKey, cfg.APISecret, cfg.RecvWindow)
	client := rest.NewClient(cfg.BaseURL, signer, rest.WithTimeout(cfg.Timeout))
	logger.Info().Str("base_url", cfg.BaseURL).Bool("testnet", cfg.Testnet).Msg("Binance client initialized")

	ctx := context.Background()

	if a.testConnection {
		return testConnection(ctx, client, logger)
	}

	if a.symbol == "" || a.side == "" || a.orderType == "" || a.quantity == "" {
		fmt.Println("\n✗ Error: --symbol, --side, --type and --quantity are required")
		return exitError
	}

	manager := orders.NewManager(client, logger)

	logger.Info().Msg("Placing order")
	if _, err := manager.PlaceOrder(ctx, a.symbol, a.side, a.orderType, a.quantity, a.price); err != nil {
		return reportError(err, logger)
	}

	logger.Info().Msg("Order completed successfully")
	return exitOK
}

// reportError prints a marker line for the error class and returns the
// process exit code. Errors are surfaced as-is; only presentation is
// added here.
func reportError(err error, logger zerolog.Logger) int {
	var validationErr *validate.ValidationError
	var apiErr *rest.APIError
	var transportErr *rest.TransportError

	switch {
	case errors.As(err, &validationErr):
		fmt.Printf("\n✗ Validation Error: %v\n\n", validationErr)
	case errors.As(err, &apiErr):
		fmt.Printf("\n✗ API Error [%d]: %s\n\n", apiErr.Code, apiErr.Message)
	case errors.As(err, &transportErr):
		fmt.Printf("\n✗ Transport Error: %v\n\n", transportErr)
	default:
		fmt.Printf("\n✗ Unexpected Error: %v\n\n", err)
	}

	logger.Error().Err(err).Msg("Order failed")
	return exitError
}

func testConnection(ctx context.Context, client *rest.Client, logger zerolog.Logger) int {
	fmt.Println("\nTesting connection to Binance Futures...")

	if err := client.Ping(ctx); err != nil {
		fmt.Println("✗ Connection failed!")
		logger.Error().Err(err).Msg("Connectivity test failed")
		return exitError
	}
	fmt.Println("✓ Connection successful!")

	account, err := client.GetAccountInfo(ctx)
	if err != nil {
		fmt.Printf("✗ Failed to access account: %v\n", err)
		logger.Error().Err(err).Msg("Account access failed")
		return exitError
	}

	fmt.Println("✓ Account access successful!")
	fmt.Printf("  Total Wallet Balance: %s USDT\n", account.TotalWalletBalance)
	logger.Info().Msg("Connectivity test successful")
	return exitOK
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
