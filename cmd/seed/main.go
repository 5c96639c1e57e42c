package main

import (
	"fmt"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 開発用の初期データ投入。2回実行しても重複しない（emailで判定）。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
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
		panic(err)
	}

	store := model.Store{Name: "本店", Location: "東京"}
	if err := gormDB.Where(model.Store{Name: store.Name}).FirstOrCreate(&store).Error; err != nil {
		panic(err)
	}

	seedUser(gormDB, model.User{
		StoreID: &store.ID,
		Name:    "店員A",
		Email:   "clerk@example.com",
		Role:    model.RoleClerk,
	}, "clerk-password")
	seedUser(gormDB, model.User{
		StoreID: &store.ID,
		Name:    "店長",
		Email:   "admin@example.com",
		Role:    model.RoleAdmin,
	}, "admin-password")
	seedUser(gormDB, model.User{
		Name:  "オーナー",
		Email: "merchant@example.com",
		Role:  model.RoleMerchant,
	}, "merchant-password")

	supplier := model.Supplier{StoreID: store.ID, Name: "青果市場", Phone: "03-0000-0000"}
	if err := gormDB.Where(model.Supplier{StoreID: store.ID, Name: supplier.Name}).FirstOrCreate(&supplier).Error; err != nil {
		panic(err)
	}

	products := []model.Product{
		{StoreID: store.ID, Name: "りんご", CurrentStock: 20, MinStockLevel: 5},
		{StoreID: store.ID, Name: "みかん", CurrentStock: 3, MinStockLevel: 5},
	}
	for _, p := range products {
		if err := gormDB.Where(model.Product{StoreID: p.StoreID, Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			panic(err)
		}
	}

	fmt.Println("seed done")
}

func seedUser(gormDB *gorm.DB, u model.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		panic(err)
	}
	u.PasswordHash = string(hash)
	u.IsActive = true

	if err := gormDB.Where(model.User{Email: u.Email}).FirstOrCreate(&u).Error; err != nil {
		panic(err)
	}
}
