package models

import (
	"fmt"

	"github.com/insightly-hq/insightly/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Role{},
		&Project{},
		&TaskItem{},
		&ProjectAssignment{},
		&TaskAssignment{},
		&RefreshToken{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedRoles creates the role registry rows if missing.
func SeedRoles() error {
	for _, name := range []RoleName{RoleAdmin, RoleTeamMember, RoleClient} {
		var count int64
		DB.Model(&Role{}).Where("name = ?", string(name)).Count(&count)
		if count == 0 {
			if err := DB.Create(&Role{Name: string(name)}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
