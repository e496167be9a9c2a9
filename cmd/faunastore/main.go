package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"faunastore/internal/cart"
	"faunastore/internal/catalog"
	"faunastore/internal/checkout"
	"faunastore/internal/directory"
	"faunastore/internal/domain"
	"faunastore/internal/history"
	"faunastore/internal/session"
	"faunastore/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	StoreBackend  string // "file" or "redis"
	DataDir       string
	RedisAddr     string
	RedisPassword string
	CatalogPath   string
}

func loadConfig() *Config {
	return &Config{
		StoreBackend:  getEnv("STORE_BACKEND", "file"),
		DataDir:       getEnv("FAUNA_DATA_DIR", "data"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CatalogPath:   getEnv("CATALOG_PATH", "products.json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	cfg := loadConfig()
	ctx := context.Background()

	// Durable key-value storage for the stores
	var store storage.PersistentStore
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Using redis storage at %s", cfg.RedisAddr)
		store = storage.NewRedisStore(client)
	case "file":
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data dir: %v", err)
		}
		log.Printf("Using file storage under %s", cfg.DataDir)
		store = fileStore
	default:
		log.Fatalf("Unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// Read-only product catalog
	products, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Printf("Catalog unavailable, continuing without it: %v", err)
		products = catalog.Empty()
	}

	// Stores, constructed once per application session
	users := directory.New(ctx, store, directory.SeedUsers())
	cartStore := cart.NewStore(ctx, store)
	sessionStore := session.NewStore(ctx, store, users)
	historyStore := history.NewStore(ctx, store)
	checkoutSvc := checkout.NewService(cartStore, historyStore)

	// The prompt re-renders on store changes the way the views did
	cartStore.Subscribe(func() {
		fmt.Printf("[cart] %d item(s), total %s rub.\n", len(cartStore.Items()), domain.FormatPrice(cartStore.Total()))
	})
	sessionStore.Subscribe(func() {
		if identity, ok := sessionStore.Current(); ok {
			fmt.Printf("[session] signed in as %s\n", identity.Name)
		} else {
			fmt.Println("[session] signed out")
		}
	})
	historyStore.Subscribe(func() {
		fmt.Printf("[orders] %d order(s) on record\n", len(historyStore.Orders()))
	})

	shell := &repl{
		catalog:  products,
		cart:     cartStore,
		session:  sessionStore,
		history:  historyStore,
		checkout: checkoutSvc,
	}
	shell.run(ctx)
}

type repl struct {
	catalog  *catalog.Catalog
	cart     *cart.Store
	session  *session.Store
	history  *history.Store
	checkout *checkout.Service
}

func (r *repl) run(ctx context.Context) {
	fmt.Println("faunastore - type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		r.dispatch(ctx, fields[0], fields[1:])
	}
}

func (r *repl) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		fmt.Println(`catalog | add <product> [variant] [qty] | cart | remove <id> | qty <id> <n>
clear | login <key> <password> | register <name> <phone> <password> | logout
whoami | checkout | orders | repeat <orderID> | rmorder <orderID> | quit`)
	case "catalog":
		for _, p := range r.catalog.Products() {
			fmt.Printf("%3d  %-40s %s\n", p.ID, p.Name, strings.Join(p.Price, " / "))
		}
	case "add":
		r.add(ctx, args)
	case "cart":
		for _, item := range r.cart.Items() {
			fmt.Printf("%-8s %-40s x%d  %s rub.\n", item.ID, item.Title, item.Quantity, domain.FormatPrice(item.Subtotal()))
		}
		fmt.Printf("total: %s rub.\n", domain.FormatPrice(r.cart.Total()))
	case "remove":
		if len(args) != 1 {
			fmt.Println("usage: remove <id>")
			return
		}
		r.cart.RemoveItem(ctx, args[0])
	case "qty":
		if len(args) != 2 {
			fmt.Println("usage: qty <id> <n>")
			return
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Println("quantity must be a number")
			return
		}
		r.cart.SetQuantity(ctx, args[0], n)
	case "clear":
		r.cart.Clear(ctx)
	case "login":
		if len(args) != 2 {
			fmt.Println("usage: login <key> <password>")
			return
		}
		if _, err := r.session.Login(ctx, args[0], args[1]); err != nil {
			// Same message for unknown user and wrong password
			fmt.Println("invalid credentials")
		}
	case "register":
		if len(args) != 3 {
			fmt.Println("usage: register <name> <phone> <password>")
			return
		}
		if _, err := r.session.Register(ctx, args[0], args[1], args[2]); err != nil {
			if errors.Is(err, directory.ErrPhoneTaken) {
				fmt.Println("phone number already registered")
				return
			}
			fmt.Println("registration failed:", err)
		}
	case "logout":
		r.session.Logout(ctx)
	case "whoami":
		if identity, ok := r.session.Current(); ok {
			fmt.Printf("%s (%s)\n", identity.Name, identity.Phone)
		} else {
			fmt.Println("anonymous")
		}
	case "checkout":
		order, err := r.checkout.Checkout(ctx)
		if err != nil {
			if errors.Is(err, checkout.ErrEmptyCart) {
				fmt.Println("nothing to checkout")
				return
			}
			fmt.Println("checkout failed:", err)
			return
		}
		fmt.Printf("order %s placed, total %s rub.\n", order.ID, domain.FormatPrice(order.TotalAmount))
	case "orders":
		for _, order := range r.history.Orders() {
			fmt.Printf("%s  %s  %d item(s)  %s rub.\n",
				order.ID, order.Date, len(order.Products), domain.FormatPrice(order.TotalAmount))
		}
	case "repeat":
		if len(args) != 1 {
			fmt.Println("usage: repeat <orderID>")
			return
		}
		if err := r.checkout.Repeat(ctx, args[0]); err != nil {
			fmt.Println("repeat failed:", err)
		}
	case "rmorder":
		if len(args) != 1 {
			fmt.Println("usage: rmorder <orderID>")
			return
		}
		r.history.RemoveOrder(ctx, args[0])
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}
}

func (r *repl) add(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 3 {
		fmt.Println("usage: add <product> [variant] [qty]")
		return
	}

	productID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("product id must be a number")
		return
	}
	variant, quantity := 0, 1
	if len(args) > 1 {
		if variant, err = strconv.Atoi(args[1]); err != nil {
			fmt.Println("variant must be a number")
			return
		}
	}
	if len(args) > 2 {
		if quantity, err = strconv.Atoi(args[2]); err != nil {
			fmt.Println("quantity must be a number")
			return
		}
	}

	// Steer to the variant already in the cart, if any
	if inUse, ok := r.cart.VariantInUse(productID); ok && len(args) < 2 {
		variant = inUse
	}

	item, err := r.catalog.LineItem(productID, variant, quantity)
	if err != nil {
		fmt.Println("cannot add:", err)
		return
	}
	r.cart.AddItem(ctx, item)
}
