package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
)

const devPassword = "foodgram123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// ================== TAGS ==================
	tags := []domain.Tag{
		{Name: "Завтрак", Slug: "breakfast"},
		{Name: "Обед", Slug: "lunch"},
		{Name: "Ужин", Slug: "dinner"},
	}
	insert(db, &tags, "tags")

	// ================== INGREDIENTS ==================
	ingredients := []domain.Ingredient{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "сахар", MeasurementUnit: "г"},
		{Name: "сахар", MeasurementUnit: "ст. л."},
		{Name: "соль", MeasurementUnit: "г"},
		{Name: "яйца", MeasurementUnit: "шт."},
		{Name: "молоко", MeasurementUnit: "мл"},
		{Name: "сливочное масло", MeasurementUnit: "г"},
		{Name: "картофель", MeasurementUnit: "г"},
		{Name: "лук репчатый", MeasurementUnit: "шт."},
		{Name: "куриное филе", MeasurementUnit: "г"},
	}
	insert(db, &ingredients, "ingredients")

	// ================== USERS ==================
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	users := []domain.User{
		{Email: "chef@foodgram.local", Username: "chef", FirstName: "Шеф", LastName: "Повар", PasswordHash: string(hash)},
		{Email: "guest@foodgram.local", Username: "guest", FirstName: "Гость", LastName: "Тестовый", PasswordHash: string(hash)},
	}
	insert(db, &users, "users")

	// reload: rows skipped by ON CONFLICT come back without ids
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, u := range users {
		var stored domain.User
		if err := db.Where("email = ?", u.Email).First(&stored).Error; err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("load user")
		}
		token, err := tokens.GenerateToken(stored.ID)
		if err != nil {
			log.Fatal().Err(err).Msg("generate token")
		}
		fmt.Printf("%s / %s (id=%d)\n  Authorization: Bearer %s\n", stored.Email, devPassword, stored.ID, token)
	}

	log.Info().Msg("seed completed")
}

func insert[T any](db *gorm.DB, rows *[]T, what string) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Str("table", what).Msg("seed failed")
	}
	log.Info().Str("table", what).Int64("inserted", result.RowsAffected).Msg("seeded")
}
