package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/ledger"
	"app/internal/notify"
	"app/internal/push"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	//.envはローカル開発用。なければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.InventoryEntry{},
		&model.SupplyRequest{},
		&model.Notification{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	//push bus。REDIS_ADDRがあればRedis pub/sub、なければプロセス内
	var bus push.Bus
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		bus = push.NewRedisBus(client, log)
		log.Info("push bus: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		bus = push.NewMemoryBus()
		log.Info("push bus: in-memory")
	}

	dispatcher := notify.NewDispatcher(bus, log)
	stockLedger := ledger.NewStockLedger()
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)

	//Usecase生成
	entryUC := usecase.NewEntryUsecase(txManager, stockLedger, dispatcher)
	supplyRequestUC := usecase.NewSupplyRequestUsecase(txManager, dispatcher)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, dispatcher)

	//Handler生成
	e := server.New(cfg, server.Handlers{
		Entries:        handler.NewEntryHandler(entryUC),
		SupplyRequests: handler.NewSupplyRequestHandler(supplyRequestUC),
		Notifications:  handler.NewNotificationHandler(notificationUC, bus),
	})

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
