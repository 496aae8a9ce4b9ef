package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/api"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/handler"
	"github.com/RoyceAzure/lab/shopcenter/internal/api/router"
	"github.com/RoyceAzure/lab/shopcenter/internal/appcontext"
	"github.com/RoyceAzure/lab/shopcenter/internal/config"
)

func main() {
	app, err := appcontext.NewApplicationContext(config.GetConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer app.Shutdown()

	server := &api.Server{
		AuthHandler:    handler.NewAuthHandler(app.UserService),
		CartHandler:    handler.NewCartHandler(app.CartService),
		ProductHandler: handler.NewProductHandler(app.ProductService),
		OrderHandler:   handler.NewOrderHandler(app.OrderService, app.CheckoutService),
		PaymentHandler: handler.NewPaymentHandler(app.PaymentService),
	}

	r := router.SetupRouter(server, app.TokenMaker, app.Logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler: r,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{})
	go func() {
		<-sigChan
		app.Logger.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error().Err(err).Msg("server shutdown error")
		}
		close(shutdownCompleted)
	}()

	app.Logger.Info().Str("port", app.Cf.ServerPort).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.Logger.Fatal().Err(err).Msg("server failed")
	}

	<-shutdownCompleted
	app.Logger.Info().Msg("server stopped")
}
