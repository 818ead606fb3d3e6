package main

import (
	appthandler "slotline/internal/appointments/handler"
	apptrepository "slotline/internal/appointments/repository"
	apptservice "slotline/internal/appointments/service"
	apptvalidator "slotline/internal/appointments/validator"
	cataloghandler "slotline/internal/catalog/handler"
	catalogrepository "slotline/internal/catalog/repository"
	catalogservice "slotline/internal/catalog/service"
	catalogvalidator "slotline/internal/catalog/validator"
	userhandler "slotline/internal/users/handler"
	userrepository "slotline/internal/users/repository"
	userservice "slotline/internal/users/service"
	uservalidator "slotline/internal/users/validator"
	"slotline/pkg/app"
	"slotline/pkg/config"
	"slotline/pkg/notifier"

	"github.com/joho/godotenv"
)

const ServiceName = "server"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Slotline API server")

	catalogSvc := initCatalog(cfg)
	userSvc := initUsers(cfg)
	booking, availability, apptValidator := initAppointments(cfg, catalogSvc, userSvc)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		appthandler.NewAppointmentHandler(booking, availability, apptValidator, cfg.JWTSecret, cfg.Log),
		cataloghandler.NewServiceHandler(catalogSvc, cfg.JWTSecret, cfg.Log),
		userhandler.NewUserHandler(userSvc, cfg.Log),
	)
	serverApp.Run()
}

func initCatalog(cfg *config.Config) catalogservice.CatalogService {
	repo := catalogrepository.NewMongoServiceRepository(cfg)
	v := catalogvalidator.NewServiceValidator(cfg.Log)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogservice.NewCatalogService(repo, v, cfg)
}

func initUsers(cfg *config.Config) userservice.UserService {
	repo := userrepository.NewMongoUserRepository(cfg)
	v := uservalidator.NewUserValidator(cfg.MinPasswordLength, cfg.Log)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userservice.NewUserService(repo, v, cfg)
}

func initAppointments(
	cfg *config.Config,
	catalog catalogservice.CatalogService,
	users userservice.UserService,
) (apptservice.BookingService, apptservice.AvailabilityService, *apptvalidator.AppointmentValidator) {
	repo := apptrepository.NewMongoAppointmentRepository(cfg)
	lockRepo := apptrepository.NewMongoSlotLockRepository(cfg)
	v := apptvalidator.NewAppointmentValidator(cfg.Log)

	emailNotifier := notifier.NewEmailNotifier(notifier.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Sender:   cfg.EmailSender,
		Password: cfg.EmailPass,
	}, cfg.Log)

	booking := apptservice.NewBookingService(repo, lockRepo, catalog, users, emailNotifier, cfg)
	availability := apptservice.NewAvailabilityService(repo, catalog, cfg)

	cfg.Log.Info("Appointment services initialized", "database", cfg.MongoDatabaseName)
	return booking, availability, v
}
