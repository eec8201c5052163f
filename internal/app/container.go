// Package app provides the dependency injection container for the
// workshop backend. This consolidates all service initialization in one
// place.
package app

import (
	"github.com/pocketbase/pocketbase"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/adapter/repository"
	"github.com/MicahMunyard/easyworkshophub-sub002/internal/adapter/storage"
	domain "github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/internal/service"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/broker"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/notify"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/services"
)

// Container holds all application dependencies.
type Container struct {
	PB *pocketbase.PocketBase

	// Infrastructure
	Broker    *broker.SegmentedBroker
	FileStore *storage.PBFileStore

	// Repositories (Data Access Layer)
	BookingRepo  *repository.PBBookingRepo
	TechRepo     domain.TechnicianRepository
	JobRepo      domain.TechJobRepository
	CacheRepo    domain.JobCacheStore
	ReviewRepo   domain.ReviewRepository
	SettingsRepo domain.SettingsRepository

	// Domain Services (Business Logic)
	BookingService domain.BookingService
	TechJobManager *service.TechJobManager
	ReviewService  *service.ReviewService
	IntakeService  *service.EmailIntakeService

	// pkg/services (app-direct)
	InventoryService *services.InventoryService
	HelpService      *services.HelpService
}

// NewContainer creates and wires all dependencies.
func NewContainer(pb *pocketbase.PocketBase) *Container {
	c := &Container{PB: pb}

	// 1. Event Broker
	c.Broker = broker.NewSegmentedBroker()

	// 2. Adapters
	c.BookingRepo = repository.NewBookingRepo(pb)
	c.TechRepo = repository.NewTechnicianRepo(pb)
	c.JobRepo = repository.NewTechJobRepo(pb)
	c.CacheRepo = repository.NewJobCacheRepo(pb)
	c.ReviewRepo = repository.NewReviewRepo(pb)
	c.SettingsRepo = repository.NewSettingsRepo(pb)
	c.FileStore = storage.NewFileStore(pb)

	// 3. Domain Services
	notifier := notify.NewToastNotifier(c.Broker)
	c.TechJobManager = service.NewTechJobManager(
		c.JobRepo,
		c.BookingRepo, // also serves assigned bookings
		c.CacheRepo,
		c.FileStore,
		notifier,
	)
	c.BookingService = service.NewBookingService(c.BookingRepo, c.TechRepo, c.Broker)
	c.ReviewService = service.NewReviewService(c.ReviewRepo)
	c.IntakeService = service.NewEmailIntakeService(c.BookingService)

	// 4. pkg/services
	c.InventoryService = services.NewInventoryService(pb, c.Broker)
	c.HelpService = services.NewHelpService(pb)

	return c
}
