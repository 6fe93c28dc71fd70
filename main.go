package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museumbot/internal/bot"
	"museumbot/internal/bot/telegram"
	intconfig "museumbot/internal/config"
	"museumbot/internal/gateway"
	router "museumbot/internal/http"
	"museumbot/internal/repositories"
	"museumbot/internal/services"
	"museumbot/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	museums := repositories.MuseumRepo{DB: db}
	bookings := repositories.BookingRepo{DB: db}

	hub := ws.NewHub()
	go hub.Run()

	inventory := services.InventoryService{Museums: museums, Bookings: bookings}
	confirm := services.ConfirmationService{
		Museums:  museums,
		Bookings: bookings,
		Payments: gateway.MockPaymentChecker{},
		Feed:     hub,
	}
	cancelSvc := services.CancelService{Bookings: bookings, Feed: hub}

	sessions := bot.NewSessionStore(env.SessionTTL)
	defer sessions.Close()

	engine := &bot.Engine{
		Sessions:          sessions,
		Museums:           museums,
		Bookings:          bookings,
		Inventory:         inventory,
		Confirm:           confirm,
		Cancel:            cancelSvc,
		Verifier: gateway.TwilioVerify{
			AccountSID: env.TwilioAccountSID,
			AuthToken:  env.TwilioAuthToken,
			ServiceSID: env.TwilioVerifySID,
		},
		Docs:              services.DocsService{},
		Translate:         gateway.MyMemory{},
		AdminPasswordHash: env.AdminPasswordHash,
	}

	transport, err := telegram.New(env.TelegramBotToken, engine)
	if err != nil {
		log.Fatalf("telegram bot init failed: %v", err)
	}
	engine.Messenger = transport

	botCtx, stopBot := context.WithCancel(context.Background())
	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		if err := transport.Run(botCtx); err != nil {
			log.Printf("telegram polling stopped: %v", err)
		}
	}()

	r := router.NewRouter(router.Deps{
		Env:       env,
		Museums:   museums,
		Inventory: inventory,
		Bookings:  bookings,
		Hub:       hub,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("admin API listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	stopBot()
	select {
	case <-botDone:
	case <-time.After(10 * time.Second):
		log.Println("telegram workers did not drain in time")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("stopped cleanly.")
}
