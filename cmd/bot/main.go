// Package main — точка входа бота.
// Загружает конфигурацию, инициализирует приложение и запускает.
// Поддерживает graceful shutdown по SIGINT/SIGTERM и по команде хозяйки.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"vorozheya.ru/telegram-bot/internal/app"
	"vorozheya.ru/telegram-bot/internal/config"
)

func main() {
	// .env удобен локально; в проде окружение задаёт оркестратор
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug(".env не найден, читаем окружение как есть")
	}

	log.Info("=== Лавка гаданий открывается ===")

	// Загружаем конфигурацию из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	setupLogging(cfg)

	// Контекст с отменой для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// По команде затвора бот просит остановить сам себя
	shutdownRequests := make(chan struct{}, 1)
	requestShutdown := func() {
		select {
		case shutdownRequests <- struct{}{}:
		default:
		}
	}

	// Инициализируем приложение (хранилище, бот, сервисы, обработчики)
	application, err := app.New(ctx, cfg, requestShutdown)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}

	// Запускаем планировщик задач (cron)
	application.Scheduler.Start(ctx)
	defer application.Scheduler.Stop()

	// Обрабатываем сигналы остановки (Ctrl+C, docker stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем бота в отдельной горутине
	go application.Bot.Start(ctx)

	log.Info("=== Лавка готова принимать гостей ===")

	// Ждём сигнала остановки или команды затвора
	select {
	case sig := <-quit:
		log.Infof("Получен сигнал %s, останавливаемся...", sig)
	case <-shutdownRequests:
		log.Info("Хозяйка закрыла лавку, останавливаемся...")
	}

	// Отменяем контекст — все горутины начнут завершаться
	cancel()

	log.Info("=== Лавка закрыта ===")
}

// setupLogging настраивает формат, уровень и вывод логов.
func setupLogging(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	out := io.Writer(os.Stdout)
	if cfg.LogFilePath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.LogFileMaxSize, // мегабайты
			MaxBackups: cfg.LogFileBackups,
			Compress:   true,
		})
	}
	log.SetOutput(out)
}
