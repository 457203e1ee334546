// Command storefront is the headless shopping client: it keeps a cart in a
// local slot (file or redis), renders shop and cart views against the
// catalog API and drives a checkout through order creation, payment
// initiation and the gateway handoff form.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/shadeworks/storefront/internal/cart"
	"github.com/shadeworks/storefront/internal/catalog"
	"github.com/shadeworks/storefront/internal/checkout"
	"github.com/shadeworks/storefront/internal/storefront"
	"github.com/shadeworks/storefront/pkg/config"
	"github.com/shadeworks/storefront/pkg/logger"
	"github.com/shadeworks/storefront/pkg/metrics"
	"github.com/shadeworks/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	exitOn(ctx, logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	name := flag.String("name", "", "customer name for checkout")
	email := flag.String("email", "", "customer email for checkout")
	phone := flag.String("phone", "", "customer phone for checkout")
	address := flag.String("address", "", "customer address for checkout")
	formOut := flag.String("form-out", "gateway-form.html", "path for the rendered gateway form")
	showMetrics := flag.Bool("show-metrics", false, "print collected client metrics before exiting")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	store, err := buildCartStore(ctx, cfg, logg, checkoutMetrics)
	exitOn(ctx, logg, "build cart store", err)

	catalogClient, err := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	exitOn(ctx, logg, "build catalog client", err)

	deps := storefront.Deps{Store: store, Catalog: catalogClient, Logger: logg}

	switch args[0] {
	case "browse":
		browser, err := storefront.NewCatalogBrowser(deps)
		exitOn(ctx, logg, "build browser", err)
		view, err := browser.Browse(ctx)
		exitOn(ctx, logg, "browse", err)
		printShop(view)

	case "add":
		browser, err := storefront.NewCatalogBrowser(deps)
		exitOn(ctx, logg, "build browser", err)
		view, err := browser.Add(ctx, requireArg(args, 1, "product id"))
		exitOn(ctx, logg, "add to cart", err)
		printShop(view)

	case "cart":
		presenter, err := storefront.NewCartPresenter(deps)
		exitOn(ctx, logg, "build presenter", err)
		printCart(presenter.View(ctx))

	case "set":
		presenter, err := storefront.NewCartPresenter(deps)
		exitOn(ctx, logg, "build presenter", err)
		quantity, err := strconv.Atoi(requireArg(args, 2, "quantity"))
		exitOn(ctx, logg, "parse quantity", err)
		view, err := presenter.SetQuantity(ctx, requireArg(args, 1, "product id"), quantity)
		exitOn(ctx, logg, "set quantity", err)
		printCart(view)

	case "remove":
		presenter, err := storefront.NewCartPresenter(deps)
		exitOn(ctx, logg, "build presenter", err)
		view, err := presenter.Remove(ctx, requireArg(args, 1, "product id"))
		exitOn(ctx, logg, "remove from cart", err)
		printCart(view)

	case "checkout":
		runCheckout(ctx, logg, cfg, store, catalogClient, checkoutMetrics, checkout.CustomerInput{
			Name:    *name,
			Email:   *email,
			Phone:   *phone,
			Address: *address,
		}, *formOut)

	default:
		usage()
		os.Exit(2)
	}

	if *showMetrics {
		printMetrics(registry)
	}
}

func buildCartStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, m *metrics.CheckoutMetrics) (*cart.Store, error) {
	slot, err := buildCartSlot(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	return cart.NewStore(slot, m)
}

func buildCartSlot(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cart.Slot, error) {
	if cfg.Cart.Backend == config.CartBackendRedis {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return cart.NewRedisSlot(client, client.CartKey(cfg.Cart.RedisKey))
	}
	return cart.NewFileSlot(cfg.Cart.FilePath)
}

func runCheckout(
	ctx context.Context,
	logg *logger.Logger,
	cfg *config.Config,
	store *cart.Store,
	catalogClient *catalog.Client,
	checkoutMetrics *metrics.CheckoutMetrics,
	customer checkout.CustomerInput,
	formOut string,
) {
	orderClient, err := checkout.NewOrderServiceClient(cfg.Checkout.OrderServiceURL, cfg.Checkout.HTTPTimeout)
	exitOn(ctx, logg, "build order client", err)
	paymentClient, err := checkout.NewPaymentServiceClient(cfg.Checkout.PaymentServiceURL, cfg.Checkout.HTTPTimeout)
	exitOn(ctx, logg, "build payment client", err)

	orch, err := checkout.NewOrchestrator(checkout.Params{
		Store:    store,
		Catalog:  catalogClient,
		Orders:   orderClient,
		Payments: paymentClient,
		Redirect: checkout.RedirectorFunc(func(_ context.Context, form *checkout.GatewayForm) error {
			html, err := form.HTML()
			if err != nil {
				return err
			}
			if err := os.WriteFile(formOut, []byte(html), 0o644); err != nil {
				return err
			}
			fmt.Printf("gateway form written to %s, open it to finish paying\n", formOut)
			return nil
		}),
		Logger:  logg,
		Metrics: checkoutMetrics,
	})
	exitOn(ctx, logg, "build orchestrator", err)

	summary, err := orch.BuildSummary(ctx)
	if err != nil {
		switch orch.Phase() {
		case checkout.PhaseEmpty:
			fmt.Println("cart is empty, nothing to check out")
		case checkout.PhaseLoadFailed:
			fmt.Println("catalog is unavailable, try again later")
		}
		exitOn(ctx, logg, "build summary", err)
	}

	fmt.Println("order summary:")
	for _, line := range summary.Lines {
		fmt.Printf("  %dx %s  %s\n", line.Quantity, line.Product.Name, line.LineTotal.Round(2))
	}
	fmt.Printf("subtotal %s, tax %s, total %s\n",
		summary.Charges.Subtotal.Round(2),
		summary.Charges.Tax.Round(2),
		summary.Charges.Total.Round(2),
	)

	exitOn(ctx, logg, "submit checkout", orch.Submit(ctx, customer))
}

func requireArg(args []string, index int, name string) string {
	if len(args) <= index {
		fmt.Fprintf(os.Stderr, "missing %s argument\n", name)
		os.Exit(2)
	}
	return args[index]
}

func printShop(view storefront.ShopView) {
	for _, product := range view.Products {
		fmt.Printf("%d  %-30s %s\n", product.ID, product.Name, product.Price.Round(2))
	}
	fmt.Printf("cart items: %d\n", view.CartCount)
}

func printCart(view storefront.CartView) {
	if view.CatalogFailed {
		fmt.Println("catalog is unavailable, showing item count only")
		fmt.Printf("cart items: %d\n", view.TotalItems)
		return
	}
	if view.Empty {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range view.Lines {
		fmt.Printf("%dx %-30s %s\n", line.Quantity, line.Product.Name, line.LineTotal.Round(2))
	}
	fmt.Printf("subtotal: %s\n", view.Subtotal.Round(2))
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront [flags] <command>

commands:
  browse              list catalog products and the cart badge count
  add <productId>     add one unit of a product to the cart
  cart                show the cart with line totals
  set <productId> <quantity>
                      set a line quantity (minimum 1)
  remove <productId>  remove a line from the cart
  checkout            build the summary, place the order and write the
                      gateway handoff form`)
}

func printMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gather metrics: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Fprintf(os.Stderr, "%s%s %s\n", mf.GetName(), formatLabels(metric.GetLabel()), formatValue(metric))
		}
	}
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatValue(metric *dto.Metric) string {
	switch {
	case metric.GetCounter() != nil:
		return strconv.FormatFloat(metric.GetCounter().GetValue(), 'g', -1, 64)
	case metric.GetHistogram() != nil:
		h := metric.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "unsupported"
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step+" failed", err)
	os.Exit(1)
}
