package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"OT2Connect/internal/adapters/handlers"
	"OT2Connect/internal/adapters/producers"
	"OT2Connect/internal/adapters/repositories/datastore"
	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"
	"OT2Connect/internal/opentrons"
	"OT2Connect/internal/services"
	"OT2Connect/internal/usecases"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		// Регистрируем все модули приложения
		ConfigModule,
		LoggerModule,
		RepositoryModule,
		ClientModule,
		ServiceModule,
		ProducerModule,
		UsecaseModule,
		HttpServerModule,
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(
		// Загрузчик конфигурации
		config.LoadConfiguration,
	),
)

var LoggerModule = fx.Module("logger_module",
	fx.Provide(
		ProvideLogger,
	),
)

// ProvideLogger настраивает общий логгер приложения
func ProvideLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(
		// Предоставляем DataStore как реализацию интерфейса Repository
		func(ds interfaces.RunStoreRepository) interfaces.Repository {
			return struct{ interfaces.RunStoreRepository }{ds}
		},
		// Конструктор для нашего in-memory хранилища
		datastore.NewDataStore,
	),
)

var ClientModule = fx.Module("client_module",
	fx.Provide(
		// Неизменяемый эндпоинт робота, собранный из конфигурации
		ProvideEndpoint,
		// Транспортный клиент HTTP API робота
		func(endpoint entities.RobotEndpoint) interfaces.RobotAPI {
			return opentrons.NewClient(endpoint)
		},
	),
)

// ProvideEndpoint собирает описание эндпоинта робота из конфигурации
func ProvideEndpoint(cfg *config.AppConfig) entities.RobotEndpoint {
	return entities.RobotEndpoint{
		Addr:       cfg.RobotAddr,
		Port:       cfg.RobotPort,
		APIVersion: cfg.APIVersion,
		Timeout:    time.Duration(cfg.Run.RequestTimeoutMs) * time.Millisecond,
	}
}

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		// Сервис установления связи с роботом
		services.NewConnectionService,
		// Справочник протоколов дозирования
		services.NewProtocolSelector,
		// Монитор запусков
		services.NewRunMonitor,
		// Сервис жизненного цикла запуска
		services.NewRunService,
	),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(
		// Продюсер событий статуса (Kafka либо заглушка)
		producers.NewStatusProducer,
	),
	fx.Invoke(InvokeProducerLifecycle),
)

// InvokeProducerLifecycle закрывает продюсер при остановке приложения
func InvokeProducerLifecycle(lc fx.Lifecycle, producer interfaces.DataProducer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
}

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(
		// Конструктор для бизнес-логики (use cases)
		usecases.NewUsecases,
	),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		// Обработчики HTTP-запросов
		handlers.NewHandler,
		// Роутер
		handlers.ProvideRouter,
	),
	// Запускаем сервер при старте приложения
	fx.Invoke(InvokeHttpServer),
)

// InvokeHttpServer запускает HTTP-сервер
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, log zerolog.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Str("addr", serverAddr).Msg("сервер запущен")
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("не удалось запустить сервер")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("остановка HTTP-сервера...")
			return server.Shutdown(ctx)
		},
	})
}
