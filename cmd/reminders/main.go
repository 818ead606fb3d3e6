package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	apptrepository "slotline/internal/appointments/repository"
	catalogrepository "slotline/internal/catalog/repository"
	"slotline/internal/reminders"
	userrepository "slotline/internal/users/repository"
	"slotline/pkg/config"
	"slotline/pkg/kafka"
	"slotline/pkg/notifier"

	"github.com/joho/godotenv"
)

const ServiceName = "reminders"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Slotline reminders worker")

	apptRepo := apptrepository.NewMongoAppointmentRepository(cfg)
	catalogRepo := catalogrepository.NewMongoServiceRepository(cfg)
	userRepo := userrepository.NewMongoUserRepository(cfg)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.ReminderTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()

	scheduler := reminders.NewScheduler(apptRepo, producer, cfg)
	if err := scheduler.Start(); err != nil {
		cfg.Log.Fatal("Failed to start reminder scheduler", "error", err)
	}
	defer scheduler.Stop()

	emailNotifier := notifier.NewEmailNotifier(notifier.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Sender:   cfg.EmailSender,
		Password: cfg.EmailPass,
	}, cfg.Log)

	handler := reminders.NewConsumer(catalogRepo, userRepo, emailNotifier, cfg)
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ReminderTopic, cfg.ReminderGroupID, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Reminder consumer stopped", "error", err)
	}

	cfg.Log.Info("Reminders worker shut down")
}
