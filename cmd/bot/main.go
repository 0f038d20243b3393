package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jmhodges/clock"

	"github.com/niltonmoco5-source/The-super-bible/internal/ai"
	"github.com/niltonmoco5-source/The-super-bible/internal/bot"
	"github.com/niltonmoco5-source/The-super-bible/internal/config"
	"github.com/niltonmoco5-source/The-super-bible/internal/database"
	"github.com/niltonmoco5-source/The-super-bible/internal/favorites"
	"github.com/niltonmoco5-source/The-super-bible/internal/notify"
	"github.com/niltonmoco5-source/The-super-bible/internal/payment"
	"github.com/niltonmoco5-source/The-super-bible/internal/router"
	"github.com/niltonmoco5-source/The-super-bible/internal/routine"
	"github.com/niltonmoco5-source/The-super-bible/internal/store"
	"github.com/niltonmoco5-source/The-super-bible/internal/subscription"
	"github.com/niltonmoco5-source/The-super-bible/internal/worker"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	// Connect to Redis
	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	kv := store.NewRedisKV(rdb)
	clk := clock.New()

	rtr := router.New()
	gate := subscription.NewGate(kv, rtr, clk)
	book := routine.NewBook(kv)
	favs := favorites.NewBoard(kv, clk)

	aiClient := ai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	paymentClient := payment.NewClient(cfg.YookassaShopID, cfg.YookassaKey)

	b, err := bot.NewBot(cfg.BotToken, db, kv, aiClient, paymentClient, gate, rtr, book, favs, clk, cfg.CheckoutReturn)
	if err != nil {
		log.Fatalf("Could not create bot: %v", err)
	}

	notifier := notify.NewTelegram(b.Instance)
	scheduler := routine.NewScheduler(book, notifier, clk)

	ctx := context.Background()

	go worker.NewSubscriptionWorker(db, gate).Start(ctx)
	go worker.NewReminderWorker(db, scheduler).Start(ctx)

	// Payment confirmation webhook
	webhook := payment.NewHandler(db, b.Instance, gate, cfg.AllowedYooIp)
	go func() {
		http.HandleFunc("/webhook/yookassa", webhook.HandleWebhook)
		log.Printf("Payment webhook listening on %s", cfg.WebhookAddr)
		if err := http.ListenAndServe(cfg.WebhookAddr, nil); err != nil {
			log.Fatalf("Webhook server failed: %v", err)
		}
	}()

	log.Println("Service started successfully")

	b.Start(ctx)
}
