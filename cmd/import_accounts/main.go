// Command import_accounts bulk-loads accounts into the embedded identity
// store from a CSV export. Rows are upserted by email, so re-running the
// import refreshes profiles without duplicating accounts.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"versenest/internal/config"
	"versenest/internal/db"
	"versenest/models"
)

var cleanWhitespace = regexp.MustCompile(`\s+`)

func main() {
	csvPath := "accounts.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	records, err := readCSV(csvPath)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	imported := 0
	for idx, record := range records {
		if err := database.Transaction(func(tx *gorm.DB) error {
			account, err := buildAccount(record)
			if err != nil {
				return err
			}
			return upsertAccount(tx, account)
		}); err != nil {
			return fmt.Errorf("record %d (%s): %w", idx+1, record["Email"], err)
		}
		imported++
	}

	fmt.Fprintf(os.Stdout, "Imported %d accounts from %s\n", imported, filepath.Base(csvPath))
	return nil
}

func upsertAccount(tx *gorm.DB, account models.Account) error {
	var existing models.Account
	err := tx.Where("email = ?", account.Email).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&account).Error
	case err != nil:
		return fmt.Errorf("find account by email %q: %w", account.Email, err)
	}

	updates := map[string]any{
		"name":             account.Name,
		"role":             account.Role,
		"pen_name":         account.PenName,
		"bio":              account.Bio,
		"genres":           account.Genres,
		"preferred_genres": account.PreferredGenres,
		"mood_preferences": account.MoodPreferences,
	}
	if account.PasswordHash != "" {
		updates["password_hash"] = account.PasswordHash
	}

	if err := tx.Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("update account %q: %w", account.Email, err)
	}
	return nil
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildAccount(row map[string]string) (models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(row["Email"]))
	if email == "" {
		return models.Account{}, errors.New("email must not be empty")
	}

	role := models.ParseRole(strings.ToLower(row["Role"]))
	if !role.Valid() {
		return models.Account{}, fmt.Errorf("unknown role %q", row["Role"])
	}

	account := models.Account{
		ID:    uuid.NewString(),
		Email: email,
		Name:  normalizeText(row["Name"]),
		Role:  role,
	}

	if password := row["Password"]; password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.Account{}, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = string(hash)
	}

	switch role {
	case models.RoleWriter:
		account.PenName = normalizeText(row["Pen Name"])
		account.Bio = normalizeText(row["Bio"])
		account.Genres = parseTags(row["Genres"], models.ValidGenre)
	case models.RoleReader:
		account.PreferredGenres = parseTags(row["Preferred Genres"], models.ValidGenre)
		account.MoodPreferences = parseTags(row["Moods"], models.ValidMood)
	}

	return account, nil
}

func normalizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

// parseTags splits a semicolon- or comma-separated tag list, dropping
// duplicates and anything outside the catalog.
func parseTags(value string, valid func(string) bool) []string {
	value = strings.ReplaceAll(value, ";", ",")

	var tags []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(value, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || !valid(tag) {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}
