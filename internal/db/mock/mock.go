package mock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "versenest/internal/log"
	"versenest/models"
)

// New returns an in-memory sqlite account store seeded with one writer and
// one reader, both using the password "versenest".
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:versenest-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("versenest"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	accounts := []*models.Account{
		{
			ID:           uuid.NewString(),
			Email:        "wren@versenest.app",
			Name:         "Wren Alder",
			PasswordHash: string(password),
			Role:         models.RoleWriter,
			PenName:      "Nightingale",
			Bio:          "Writes short free verse about coastlines and weather.",
			Genres:       []string{"lyrical", "free-verse"},
		},
		{
			ID:              uuid.NewString(),
			Email:           "sage@versenest.app",
			Name:            "Sage Mori",
			PasswordHash:    string(password),
			Role:            models.RoleReader,
			PreferredGenres: []string{"haiku", "narrative"},
			MoodPreferences: []string{"reflective", "uplifting"},
		},
	}

	for _, account := range accounts {
		if err := db.WithContext(ctx).Create(account).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
