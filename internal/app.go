package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"property-map/internal/adapters/console"
	logger_adapter "property-map/internal/adapters/logger"
	"property-map/internal/adapters/notifier"
	"property-map/internal/adapters/property_api_client"
	"property-map/internal/adapters/rest"
	"property-map/internal/configs"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"property-map/internal/core/usecase"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const shutdownTimeout = 5 * time.Second

// App - веб-сессия: HTTP API, SSE и клиент бэкенда.
type App struct {
	config    *configs.Config
	state     *usecase.AppState
	apiServer *rest.Server
	notifier  *notifier.SSENotifier

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

// ConsoleApp - та же сессия, но с текстовым интерфейсом.
type ConsoleApp struct {
	console *console.Console

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := newBaseLogger(appConfig, os.Stdout, true)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	sseNotifier := notifier.NewSSENotifier(baseLogger)
	appLogger.Info("SSE Notifier initialized.", nil)

	state := newAppState(appConfig, rest.RequestConfirmer{}, sseNotifier)

	handlers := rest.NewSessionHandler(state, sseNotifier)
	apiServer := rest.NewServer(appConfig.Port, handlers, appConfig.CORSAllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", port.Fields{"property_api": appConfig.PropertyAPI.URL})

	return &App{
		config:       appConfig,
		state:        state,
		apiServer:    apiServer,
		notifier:     sseNotifier,
		logger:       appLogger,
		fluentClient: fluentClient,
	}, nil
}

func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(stopCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		a.notifier.Close()

		a.logger.Info("Application shut down gracefully.", nil)
		closeFluent(a.fluentClient)
	}()

	a.logger.Info("Application is starting...", nil)

	// Первая загрузка не мешает старту: ошибка видна в состоянии сессии
	loadCtx := contextkeys.ContextWithLogger(appCtx, a.logger)
	if err := a.state.Start(loadCtx); err != nil {
		a.logger.Warn("Initial property load failed", port.Fields{"error": err.Error()})
	}

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("HTTP server start error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		return err
	}
	return nil
}

func NewConsoleApp(in *os.File, out io.Writer) (*ConsoleApp, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Логи уходят в stderr, чтобы не смешиваться с выводом команд
	baseLogger, fluentClient, err := newBaseLogger(appConfig, os.Stderr, false)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(in)
	confirmer := console.NewTerminalConfirmer(reader, out, in)
	state := newAppState(appConfig, confirmer, nil)

	return &ConsoleApp{
		console:      console.NewConsole(state, reader, out, baseLogger),
		logger:       baseLogger.WithFields(port.Fields{"component": "app"}),
		fluentClient: fluentClient,
	}, nil
}

func (a *ConsoleApp) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer closeFluent(a.fluentClient)

	a.logger.Debug("Console session started", nil)
	return a.console.Run(ctx)
}

func newAppState(cfg *configs.Config, confirmer port.ConfirmerPort, stateNotifier port.StateNotifierPort) *usecase.AppState {
	client := property_api_client.NewClient(cfg.PropertyAPI.URL, time.Duration(cfg.PropertyAPI.TimeoutSeconds)*time.Second)
	store := usecase.NewPropertyStore(client, confirmer, cfg.PageSize)

	viewport := domain.Viewport{
		Center: domain.GeoPoint{Latitude: cfg.Map.DefaultLat, Longitude: cfg.Map.DefaultLng},
		Zoom:   cfg.Map.DefaultZoom,
	}
	return usecase.NewAppState(store, stateNotifier, viewport)
}

// newBaseLogger собирает stdout-логгер и, если включен, Fluent Bit.
func newBaseLogger(cfg *configs.Config, w io.Writer, useColor bool) (port.LoggerPort, *fluent.Fluent, error) {
	activeLoggers := []port.LoggerPort{
		logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
			Writer:   w,
			Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
			UseColor: useColor,
		}),
	}

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			activeLoggers[0].Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Debug("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, fluentClient, nil
}

func closeFluent(client *fluent.Fluent) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Error closing fluent client: %v\n", err)
	}
}
