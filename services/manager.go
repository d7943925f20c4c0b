package services

import (
	"seeu_cafe_server/database"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/store"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService        *CacheService
	HealthService       *HealthService
	NotificationService *NotificationService
	TableService        *TableService
	BillingService      *BillingService
	SettlementService   *SettlementService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	st := store.NewBun(db)
	ids, err := lib.NewIDGenerator(cfg.Billing.SnowflakeNode)
	if err != nil {
		logger.Fatal("Failed to initialize identifier generator", gecho.Field("error", err))
	}

	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	notificationService := NewNotificationService(logger, cfg, cacheService)
	tableService := NewTableService(logger, st)
	billingService := NewBillingService(logger, cfg, st, ids, cacheService)
	settlementService := NewSettlementService(logger, cfg, st, ids, cacheService, notificationService)

	return &ServiceManager{
		CacheService:        cacheService,
		HealthService:       healthService,
		NotificationService: notificationService,
		TableService:        tableService,
		BillingService:      billingService,
		SettlementService:   settlementService,
	}
}
