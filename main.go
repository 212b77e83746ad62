package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MarcGrol/shopcart/cart"
	"github.com/MarcGrol/shopcart/cart/store"
	"github.com/MarcGrol/shopcart/lib/myconfig"
	"github.com/MarcGrol/shopcart/lib/myhealth"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mymetrics"
	"github.com/MarcGrol/shopcart/lib/mypublisher"
	"github.com/MarcGrol/shopcart/lib/mypubsub"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/mytrace"
	"github.com/MarcGrol/shopcart/lib/myuuid"
)

const healthServiceName = "cart"

func main() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := myconfig.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	_, shutdownTracer, err := mytrace.New(c, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Error creating tracer: %s", err)
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	logger := mylog.New("cart")
	router := mux.NewRouter()

	metrics := mymetrics.New(cfg.ServiceName)
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	cartStore := store.New()
	metrics.RegisterCartGauges(cartStore.Size, cartStore.TotalQuantity)

	orderStore, orderStoreCleanup, err := mystore.New[cart.Order](c, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c, cfg.ProjectID)
	if err != nil {
		log.Fatalf("Error creating pubsub client: %s", err)
	}
	defer pubsubCleanup()
	publisher := mypublisher.New(pubsub, mytime.RealNower{}, mylog.New("publisher"))

	cartService := cart.NewService(cartStore, orderStore, publisher,
		cart.Pricing{UnitPrice: cfg.Cart.UnitPrice, Currency: cfg.Cart.Currency},
		mytime.RealNower{}, myuuid.RealUUIDer{}, metrics, logger)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart endpoints: %s", err)
	}

	healthServer := myhealth.New()
	go startHealthServerBlocking(healthServer, cfg.GRPCPort)
	defer healthServer.Stop()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go startWebServerBlocking(httpServer, cfg.Port)
	healthServer.SetServing(healthServiceName, true)

	<-c.Done()
	log.Printf("Shutting down")
	healthServer.SetServing(healthServiceName, false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error shutting down webserver: %s", err)
	}
}

func startWebServerBlocking(server *http.Server, port string) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/api/cart)", port, port)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}

func startHealthServerBlocking(server *myhealth.Server, port string) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		log.Fatalf("Error listening on grpc port %s: %s", port, err)
	}

	log.Printf("Starting grpc health server on port %s", port)
	err = server.Serve(lis)
	if err != nil {
		log.Printf("Grpc health server stopped: %s", err)
	}
}
