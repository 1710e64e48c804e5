package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tourbook/internal/app/commands"
	bookingapp "tourbook/internal/app/handlers/booking"
	tourapp "tourbook/internal/app/handlers/tour"
	"tourbook/internal/app/middleware"
	appoutbox "tourbook/internal/app/outbox"
	"tourbook/internal/app/queries"
	"tourbook/internal/app/uow"
	"tourbook/internal/domain/shared/money"
	domaintour "tourbook/internal/domain/tour"
	"tourbook/internal/infra/broker/kafka"
	"tourbook/internal/infra/config"
	mongodb "tourbook/internal/infra/db/mongo"
	ginserver "tourbook/internal/infra/http/gin"
	"tourbook/internal/infra/inbox"
	"tourbook/internal/infra/obs"
	infraoutbox "tourbook/internal/infra/outbox"
	"tourbook/internal/infra/storage/memory"
	"tourbook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.StorageMode == "memory" {
		fixturesPath := getenv("TOUR_FIXTURES", "")
		if fixturesPath == "" {
			fixturesPath = defaultTourFixturesPath()
		}
		if err := app.loadTourFixtures(ctx, fixturesPath, logger); err != nil {
			logger.Warn("tour fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	for _, task := range app.background {
		go func(run func(context.Context) error) {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background task stopped", "error", err)
			}
		}(task)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	background []func(context.Context) error
	ready      func() error
	tourRepo   domaintour.Repository
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
		idStore     middleware.IdempotencyStore
		tourRepo    domaintour.Repository
		background  []func(context.Context) error
		mongoClient *mongodb.Client
		ready       = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		mongoClient = client
		tours := mongodb.NewTourRepository(client.DB)
		bookings := mongodb.NewBookingRepository(client.DB)
		tourRepo = tours
		uowFactory = mongodb.Factory{DB: client.DB, TourRepo: tours, BookingRepo: bookings}
		idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		store := infraoutbox.NewStore(client.DB)
		outboxStore = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka producer: %w", err)
			}
			worker := &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			background = append(background, worker.Run)
		}
	default:
		memTours := memory.NewTourRepository()
		memBookings := memory.NewBookingRepository()
		tourRepo = memTours
		uowFactory = memory.Factory{TourRepo: memTours, BookingRepo: memBookings}
		idStore = memory.NewIdempotencyStore()
		outboxStore = memory.NewOutbox()
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmPaymentCommand{}.Key(), &bookingapp.ConfirmPaymentHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RefundBookingCommand{}.Key(), &bookingapp.RefundBookingHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, tourapp.CreateTourCommand{}.Key(), &tourapp.CreateTourHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, tourapp.ApplyDiscountCommand{}.Key(), &tourapp.ApplyDiscountHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, tourapp.AttachPhotoCommand{}.Key(), &tourapp.AttachPhotoHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})
	tourapp.RegisterLifecycle(commandBus, &tourapp.LifecycleHandler{
		UoWFactory: uowFactory, Outbox: outboxStore, Encoder: encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, tourapp.TourOverviewQuery{}.Key(), &tourapp.TourOverviewHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, tourapp.TourCatalogQuery{}.Key(), &tourapp.TourCatalogHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.CancelPreviewQuery{}.Key(), &bookingapp.CancelPreviewHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.CustomerBookingsQuery{}.Key(), &bookingapp.CustomerBookingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.FeePolicyQuery{}.Key(), &bookingapp.FeePolicyHandler{})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	if mongoClient != nil && len(cfg.KafkaBrokers) > 0 {
		listener := &kafka.PaymentListener{
			Bus:    commandBusWithMiddleware,
			Inbox:  inbox.NewStore(mongoClient.DB, cfg.ConsumerGroup),
			Logger: logger,
		}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, nil, listener)
		if err != nil {
			return application{}, fmt.Errorf("kafka consumer: %w", err)
		}
		background = append(background, func(ctx context.Context) error {
			defer consumer.Close()
			return consumer.Run(ctx, []string{cfg.KafkaTopicPrefix + cfg.PaymentTopic})
		})
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("s3 uploader unavailable", "error", err)
	} else {
		uploader = client
	}

	return application{
		handlers: ginserver.Handlers{
			Tour: ginserver.TourHandler{
				Queries: queryBusWithMiddleware,
			},
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
			},
			OperatorTour: ginserver.OperatorTourHandler{
				Commands: commandBusWithMiddleware,
				Uploader: uploader,
				Logger:   logger,
			},
		},
		background: background,
		ready:      ready,
		tourRepo:   tourRepo,
	}, nil
}

func (a application) loadTourFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("tour fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("tour fixtures file empty", "path", path)
		return nil
	}

	var fixtures []tourFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures {
		params := domaintour.CreateParams{
			ID:              domaintour.TourID(fx.ID),
			OperatorID:      fx.Operator,
			Title:           fx.Title,
			Description:     fx.Description,
			Region:          fx.Region,
			DeparturePoint:  fx.DeparturePoint,
			MinParticipants: fx.MinParticipants,
			MaxParticipants: fx.MaxParticipants,
			StartDate:       parseFixtureTime(fx.StartDate, now.AddDate(0, 1, 0)),
			Price:           money.Dong(fx.Price),
			Now:             now,
		}
		t, err := domaintour.NewTour(params)
		if err != nil {
			logger.Error("fixture invalid", "tour_id", fx.ID, "error", err)
			continue
		}
		t.ClearEvents()
		if err := a.tourRepo.Save(ctx, t); err != nil {
			logger.Error("cannot store fixture tour", "tour_id", fx.ID, "error", err)
			continue
		}
		logger.Info("tour fixture imported", "tour_id", t.ID)
	}
	return nil
}

type tourFixture struct {
	ID              string `json:"id"`
	Operator        string `json:"operator"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Region          string `json:"region"`
	DeparturePoint  string `json:"departure_point"`
	MinParticipants int    `json:"min_participants"`
	MaxParticipants int    `json:"max_participants"`
	StartDate       string `json:"start_date"`
	Price           int64  `json:"price"`
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func defaultTourFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "tours.json"),
		filepath.Join("deploy", "data", "tours.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
