// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"time"

	"github.com/HarborCommerce/harbor-go/internal/application/services"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/caching/manager"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/email"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/media"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/observability/logging"
	analyticsstore "github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/analytics"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/database"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/persistence/inventory"
	"github.com/HarborCommerce/harbor-go/internal/infrastructure/security"
	"github.com/HarborCommerce/harbor-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	EventProcessingService  *services.EventProcessingService
	JourneyAnalyticsService *services.JourneyAnalyticsService
	DemandService           *services.DemandService
	DigestService           *services.DigestService
	InventoryService        *services.InventoryService
	AuthService             *services.AuthService
	MediaService            *services.MediaService

	// Infrastructure dependencies
	DB                *database.DB
	EventRepository   *analyticsstore.SQLEventRepository
	ProductRepository *inventory.SQLProductRepository
	CacheManager      *manager.Manager
	Logger            *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) (*Container, error) {
	cacheManager := manager.NewManager(logger)

	eventRepo := analyticsstore.NewSQLEventRepository(db, logger)
	productRepo := inventory.NewSQLProductRepository(db, logger)

	inventoryService := services.NewInventoryService(productRepo, logger)

	jwtSecret := config.JWTSecret
	if jwtSecret == "" {
		generated, err := security.GenerateSecureKey(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		jwtSecret = generated
		logger.Auth().Warn("JWT_SECRET not configured, generated an ephemeral signing key; admin sessions will not survive a restart")
	}

	authService, err := services.NewAuthService(
		config.AdminPassword,
		jwtSecret,
		time.Duration(config.JWTExpiryHours)*time.Hour,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	journeyService := services.NewJourneyAnalyticsService(
		eventRepo,
		cacheManager.Reports(),
		logger,
		config.CollaboratorTimeout,
		config.DashboardTTL,
	)

	demandService := services.NewDemandService(
		eventRepo,
		inventoryService,
		cacheManager.Reports(),
		cacheManager.Stock(),
		logger,
		config.CollaboratorTimeout,
		config.ReportCacheTTL,
		config.InventoryTTL,
	)

	var mailer email.Service
	if config.DigestEnabled && config.ResendAPIKey != "" {
		mailer, err = email.NewService(config.ResendAPIKey, config.DigestFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
	}
	digestService := services.NewDigestService(demandService, mailer, config.DigestRecipient, logger)

	processor := media.NewImageProcessor(config.MediaDirectory, float32(config.WebPQuality))
	mediaService := services.NewMediaService(processor, productRepo, logger)

	return &Container{
		EventProcessingService:  services.NewEventProcessingService(eventRepo, logger),
		JourneyAnalyticsService: journeyService,
		DemandService:           demandService,
		DigestService:           digestService,
		InventoryService:        inventoryService,
		AuthService:             authService,
		MediaService:            mediaService,

		DB:                db,
		EventRepository:   eventRepo,
		ProductRepository: productRepo,
		CacheManager:      cacheManager,
		Logger:            logger,
	}, nil
}
