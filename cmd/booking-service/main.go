package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"travelbooking/internal/pkg/bootstrap"
	"travelbooking/internal/pkg/config"
	"travelbooking/internal/pkg/httpclient"
	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/mq"
	"travelbooking/internal/pkg/nacos"
	"travelbooking/internal/pkg/redis"
	"travelbooking/internal/pkg/tracing"
	"travelbooking/internal/service/booking/application"
	"travelbooking/internal/service/booking/domain/port"
	"travelbooking/internal/service/booking/infrastructure"
	"travelbooking/internal/service/booking/infrastructure/adapter"
	"travelbooking/internal/service/booking/interfaces"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Service.Name, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("Booking service exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	tp, err := tracing.InitTracerProvider(cfg.Service.Name, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		return err
	}
	tracer := otel.Tracer(cfg.Service.Name)

	app := bootstrap.AppInfo{
		ServiceName:     cfg.Service.Name,
		Port:            cfg.Service.Port,
		ShutdownTimeout: cfg.Service.ShutdownTimeout,
	}

	// --- 1. Storage ---
	db, err := infrastructure.NewGormDB(cfg.MySQL)
	if err != nil {
		return err
	}

	var codes port.CodeGenerator = adapter.NewTimeCodeGenerator()
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.NewClient(ctx, cfg.Redis.Addrs, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		gen, err := adapter.NewRedisCodeGenerator(redisClient)
		if err != nil {
			return err
		}
		codes = gen
	} else {
		log.Warn().Msg("Redis not configured, booking codes are generated in-process")
	}
	repo := infrastructure.NewGormBookingRepository(db, codes)

	// --- 2. Downstream services ---
	services := cfg.Services
	if cfg.Nacos.Enabled() {
		nc, err := nacos.NewNacosClient(cfg.Nacos.ServerAddrs, cfg.Nacos.Namespace, cfg.Nacos.Group)
		if err != nil {
			return err
		}
		app.Nacos = nc
		for _, ep := range []*config.Endpoint{&services.Flight, &services.Hotel, &services.Train, &services.LocalTravel, &services.Payment} {
			ep.URL = nc.ResolveBaseURL(ep.Name, ep.URL)
		}
	}

	client := httpclient.NewClient(tracer)
	inventories := port.InventoryRegistry{
		Flight:      adapter.NewFlightHTTPAdapter(client, services.Flight.URL),
		Hotel:       adapter.NewHotelHTTPAdapter(client, services.Hotel.URL),
		Train:       adapter.NewTrainHTTPAdapter(client, services.Train.URL),
		LocalTravel: adapter.NewLocalTravelHTTPAdapter(client, services.LocalTravel.URL),
	}
	payments := adapter.NewPaymentHTTPAdapter(client, services.Payment.URL)

	// --- 3. Messaging ---
	var events port.EventPublisher = adapter.NoopEventPublisher{}
	var eventAdapter *adapter.EventKafkaAdapter
	if cfg.Kafka.Enabled() {
		eventAdapter = adapter.NewEventKafkaAdapter(mq.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic))
		events = eventAdapter
	} else {
		log.Warn().Msg("Kafka not configured, booking events are dropped")
	}

	// --- 4. Application ---
	svc := application.NewBookingApplicationService(repo, inventories, payments, events, tracer, application.Options{
		ProcessingTimeout:    cfg.Service.ProcessingTimeout,
		CallTimeout:          cfg.Service.CallTimeout,
		CompensationTimeout:  cfg.Service.CompensationTimeout,
		DefaultPaymentMethod: cfg.Service.DefaultPaymentMethod,
		DefaultCurrency:      cfg.Service.DefaultCurrency,
	})

	var consumer *interfaces.PaymentStatusConsumer
	if cfg.Kafka.Enabled() && cfg.Kafka.PaymentStatusTopic != "" {
		reader := mq.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.PaymentStatusTopic, cfg.Kafka.PaymentStatusGroupID)
		consumer = interfaces.NewPaymentStatusConsumer(reader, svc)
		app.Background = append(app.Background, consumer.Run)
	}

	// --- 5. HTTP ---
	router := mux.NewRouter()
	router.Use(interfaces.RequestIDMiddleware)
	interfaces.NewBookingHandler(svc).RegisterRoutes(router)
	app.RegisterHandlers = func(m *http.ServeMux) {
		m.Handle("/api/", router)
	}

	// --- 6. Shutdown order: consumers, producers, stores, tracer ---
	if consumer != nil {
		app.Cleanup = append(app.Cleanup, func(context.Context) error { return consumer.Close() })
	}
	if eventAdapter != nil {
		app.Cleanup = append(app.Cleanup, func(context.Context) error { return eventAdapter.Close() })
	}
	if redisClient != nil {
		app.Cleanup = append(app.Cleanup, func(context.Context) error { return redisClient.Close() })
	}
	app.Cleanup = append(app.Cleanup,
		func(context.Context) error { return infrastructure.CloseGormDB(db) },
		tp.Shutdown,
	)
	if app.Nacos != nil {
		nc := app.Nacos
		app.Cleanup = append(app.Cleanup, func(context.Context) error { nc.Close(); return nil })
	}

	return bootstrap.StartService(app)
}
