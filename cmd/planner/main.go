package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/api"
	"github.com/Freeeeeet/slot_planner/internal/app"
	"github.com/Freeeeeet/slot_planner/internal/board"
	"github.com/Freeeeeet/slot_planner/internal/config"
	"github.com/Freeeeeet/slot_planner/internal/controller"
	"github.com/Freeeeeet/slot_planner/internal/metrics"
	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/notify"
	"github.com/Freeeeeet/slot_planner/internal/realtime"
	"github.com/Freeeeeet/slot_planner/internal/repository"
	"github.com/Freeeeeet/slot_planner/internal/repository/base"
	"github.com/Freeeeeet/slot_planner/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting slot planner",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("telegram", cfg.TelegramEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Slot planner stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Slot planner stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("slot_planner", registry)

	// Уведомления
	var (
		notifier service.Notifier = notify.NewLogNotifier(logger)
		tgBot    *bot.Bot
	)
	if cfg.TelegramEnabled() {
		tgBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		notifier = notify.NewTelegramNotifier(tgBot, cfg.TelegramChatID, logger)
	}

	// Репозитории и сервисы
	txManager := base.NewTxManager(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	slotRepo := repository.NewSlotRepository(pool, appointmentRepo)
	customerRepo := repository.NewCustomerRepository(pool)

	slotService := service.NewSlotService(txManager, slotRepo, logger)
	appointmentService := service.NewAppointmentService(txManager, appointmentRepo, customerRepo, logger)
	customerService := service.NewCustomerService(customerRepo, appointmentService, notifier, logger)

	// Лента изменений и доска
	hub := realtime.NewHub(256, logger)
	listener := realtime.NewListener(pool, hub, m, logger)
	slotBoard := board.New(slotService, appointmentService, notifier, m, logger)

	window := func() model.SlotFilter {
		return board.Window(time.Now(), cfg.BoardDaysBehind, cfg.BoardDaysAhead)
	}
	// подписка до начальной загрузки и до LISTEN: ни одно событие между ними не теряется
	boardSub := hub.Subscribe()
	if err := slotBoard.Load(ctx, window()); err != nil {
		boardSub.Close()
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		slotBoard.Run(ctx, boardSub)
	}()
	go func() {
		defer wg.Done()
		_ = listener.Run(ctx)
	}()

	resync := app.NewScheduler(slotBoard, window, cfg.ResyncInterval, logger)
	resync.Start(ctx)
	defer resync.Stop()

	if tgBot != nil {
		botController := controller.NewBotController(tgBot, slotBoard, cfg.TelegramChatID, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands are unavailable", zap.Error(err))
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			botController.Start(ctx)
		}()
	}

	// HTTP
	server := api.NewServer(slotService, appointmentService, customerService, slotBoard, hub, logger)
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(server, api.RouterOptions{
			CORSOrigins:    cfg.CORSOrigins,
			Metrics:        m,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	wg.Wait()
	return nil
}
