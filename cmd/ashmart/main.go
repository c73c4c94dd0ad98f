package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/address"
	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/auth"
	"github.com/Ashutosh2ingh/AshMart/internal/cart"
	"github.com/Ashutosh2ingh/AshMart/internal/checkout"
	"github.com/Ashutosh2ingh/AshMart/internal/orders"
	"github.com/Ashutosh2ingh/AshMart/internal/payment"
	"github.com/Ashutosh2ingh/AshMart/internal/store"
	"github.com/Ashutosh2ingh/AshMart/pkg/logger"
	"github.com/Ashutosh2ingh/AshMart/pkg/metrics"
)

type Config struct {
	StorefrontURL  string
	DBPath         string
	GatewayKey     string
	LogLevel       string
	MetricsAddr    string
	RequestTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		StorefrontURL:  getEnv("STOREFRONT_URL", "http://localhost:8000"),
		DBPath:         getEnv("ASHMART_DB", "ashmart.db"),
		GatewayKey:     getEnv("RAZORPAY_KEY", "rzp_test_y5XK5rBqc7230w"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsAddr:    getEnv("METRICS_ADDR", ""),
		RequestTimeout: 30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type app struct {
	cfg        *Config
	log        *zap.Logger
	store      *store.Store
	tokens     *auth.TokenSource
	verifier   *auth.Verifier
	reconciler *cart.Reconciler
	addresses  *address.Book
	orders     *orders.Client
	checkout   *checkout.Orchestrator
}

func main() {
	cfg := loadConfig()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open local store", zap.Error(err))
	}
	defer st.Close()

	m := metrics.NewClientMetrics(prometheus.DefaultRegisterer)
	tokens := auth.NewTokenSource(st)
	client := api.New(cfg.StorefrontURL, tokens, log, api.WithMetrics(m))
	cartRepo := cart.NewRepository(client)
	ordersClient := orders.NewClient(client)

	a := &app{
		cfg:        cfg,
		log:        log,
		store:      st,
		tokens:     tokens,
		verifier:   auth.NewVerifier(client, tokens, log),
		reconciler: cart.NewReconciler(cartRepo, log),
		addresses:  address.NewBook(client, log),
		orders:     ordersClient,
		checkout: checkout.New(cartRepo, ordersClient, payment.NewConsoleGateway(os.Stdin, os.Stdout), st,
			checkout.Config{
				GatewayKey:  cfg.GatewayKey,
				StoreName:   "AshMart",
				Description: "Order Payment",
				Prefill: payment.Prefill{
					Email:   "test@example.com",
					Contact: "9876543210",
					Name:    "AshMart",
				},
			}, log, m),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, log)
		defer shutdownMetricsServer(srv, log)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	switch command {
	case "login":
		if len(args) != 1 {
			return errors.New("usage: ashmart login <token>")
		}
		return a.tokens.SetToken(ctx, args[0])
	case "logout":
		return a.tokens.ClearToken(ctx)
	case "verify":
		valid, err := a.verifier.VerifyToken(ctx)
		if err != nil {
			return err
		}
		if !valid {
			return errors.New("token invalid, log in again")
		}
		fmt.Println("token valid")
		return nil
	case "cart":
		return a.showCart(ctx)
	case "inc", "dec", "rm":
		return a.mutateCart(ctx, command, args)
	case "addresses":
		return a.listAddresses(ctx)
	case "address-add":
		return a.addAddress(ctx, args)
	case "address-rm":
		if len(args) != 1 {
			return errors.New("usage: ashmart address-rm <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid address id %q", args[0])
		}
		_, err = a.addresses.Delete(ctx, id)
		return err
	case "checkout":
		return a.runCheckout(ctx, args)
	case "orders":
		return a.listOrders(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) showCart(ctx context.Context) error {
	lines, err := a.reconciler.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("No items in the cart")
		return nil
	}
	for _, line := range lines {
		fmt.Printf("%4d  %-30s %s/%s  x%d  ₹%s  (line %d)\n",
			line.Product.ID, line.Product.ProductName,
			line.Product.Color.Color, line.Product.Size.Size,
			line.Quantity, line.Product.DiscountPrice, line.ID)
	}
	fmt.Printf("Subtotal: ₹%.2f  Discount: ₹%.2f  Total: ₹%.2f\n",
		a.reconciler.Subtotal(), a.reconciler.Discount(), a.reconciler.Total())
	return nil
}

func (a *app) mutateCart(ctx context.Context, command string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ashmart %s <line-id>", command)
	}
	lineID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid line id %q", args[0])
	}
	if _, err := a.reconciler.Refresh(ctx); err != nil {
		return err
	}

	switch command {
	case "inc":
		if err := a.reconciler.Increase(ctx, lineID); err != nil {
			return err
		}
	case "dec":
		removed, err := a.reconciler.Decrease(ctx, lineID)
		if err != nil {
			return err
		}
		if removed {
			fmt.Println("Item has been removed from cart")
		}
	case "rm":
		if err := a.reconciler.Remove(ctx, lineID); err != nil {
			return err
		}
		fmt.Println("Item has been removed from cart")
	}
	return a.showCart(ctx)
}

func (a *app) listAddresses(ctx context.Context) error {
	addresses, err := a.addresses.Fetch(ctx)
	if err != nil {
		return err
	}
	for _, addr := range addresses {
		fmt.Printf("%4d  %s, %s, %s, %d, %s, %s\n",
			addr.ID, addr.Name, addr.FlatBuildingNo, addr.City, addr.Pincode, addr.State, addr.Country)
	}
	return nil
}

func (a *app) addAddress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("address-add", flag.ContinueOnError)
	var in address.NewAddress
	fs.StringVar(&in.Name, "name", "", "recipient name")
	fs.StringVar(&in.Email, "email", "", "contact email")
	fs.StringVar(&in.Phone, "phone", "", "contact phone")
	fs.StringVar(&in.FlatBuildingNo, "building", "", "flat/building number")
	fs.StringVar(&in.City, "city", "", "city")
	fs.StringVar(&in.Pincode, "pincode", "", "postal pincode")
	fs.StringVar(&in.State, "state", "", "state")
	fs.StringVar(&in.Country, "country", "", "country")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := a.addresses.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println("Address added successfully")
	return nil
}

func (a *app) runCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	addressID := fs.Int64("address", 0, "shipment address id (default: first address)")
	resume := fs.String("resume", "", "attempt id to resume after a partial failure")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *resume != "" {
		if err := a.checkout.Resume(ctx, *resume); err != nil {
			return err
		}
		fmt.Println("Order Placed Successfully!")
		return a.listOrders(ctx)
	}

	if _, err := a.checkout.Begin(ctx); err != nil {
		return err
	}

	selected := *addressID
	if selected == 0 {
		addresses, err := a.addresses.Fetch(ctx)
		if err != nil {
			return err
		}
		id, ok := address.DefaultSelection(addresses)
		if !ok {
			return errors.New("no shipment address on file, add one first")
		}
		selected = id
	}
	if err := a.checkout.SelectAddress(selected); err != nil {
		return err
	}

	if err := a.checkout.ProceedToPay(ctx); err != nil {
		var partial *checkout.PartialCompletionError
		if errors.As(err, &partial) {
			return fmt.Errorf("%w\nresume with: ashmart checkout -resume %s", err, partial.AttemptID)
		}
		return err
	}

	fmt.Println("Order Placed Successfully!")
	return a.listOrders(ctx)
}

func (a *app) listOrders(ctx context.Context) error {
	list, err := a.orders.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No orders found")
		return nil
	}
	for _, o := range list {
		fmt.Printf("%4d  %-30s %-12s %s\n",
			o.OrderID, o.ProductVariation.ProductName, o.OrderStatus, o.OrderDate)
	}
	return nil
}

func startMetricsServer(addr string, log *zap.Logger) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Info("metrics listener starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener error", zap.Error(err))
		}
	}()
	return srv
}

func shutdownMetricsServer(srv *http.Server, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics listener shutdown", zap.Error(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ashmart <command> [flags]

commands:
  login <token>     store the API token
  logout            remove the stored token
  verify            check the stored token against the server
  cart              show the cart
  inc|dec|rm <line> change a cart line's quantity / remove it
  addresses         list shipment addresses
  address-add       add a shipment address (see -h for fields)
  address-rm <id>   delete a shipment address
  checkout          run the checkout pipeline
  orders            list placed orders`)
}
