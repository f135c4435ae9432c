package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "github.com/oggyb/matcha/internal/logger"
)

// LikeFunc applies a like through the relationship state machine so seeded
// counters and events stay consistent with the edges.
type LikeFunc func(ctx context.Context, actorID, targetID uint64) error

// Seed center: Singapore.
const (
	seedLat = 1.30
	seedLon = 103.80
)

// SeedTestData resets the database and populates it with a demo population.
//
// Behavior:
//  1. Clears every matcha table.
//  2. Creates `users` activated users around (1.30, 103.80), each with a
//     location within ~30 km, three interests and a profile picture.
//  3. Applies ~4 likes per user through like; every 3rd like is made mutual.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset per dialect).
func SeedTestData(ctx context.Context, db *gorm.DB, users int, like LikeFunc) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", models[i], err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE events AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'events', 'pictures')")
	}

	applog.Info("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	genders := []Gender{GenderMale, GenderFemale}
	orientations := []Orientation{OrientationMale, OrientationFemale, OrientationBisexual}

	people := make([]User, 0, users)
	for i := 1; i <= users; i++ {
		u := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    fmt.Sprintf("First%d", i),
			LastName:     fmt.Sprintf("Last%d", i),
			Gender:       genders[i%len(genders)],
			Orientation:  orientations[r.Intn(len(orientations))],
			DateOfBirth:  time.Now().UTC().AddDate(-(18 + r.Intn(28)), -r.Intn(12), 0).Truncate(24 * time.Hour),
			Status:       StatusActivated,
		}
		lat := seedLat + (r.Float64()-0.5)*0.5
		lon := seedLon + (r.Float64()-0.5)*0.5

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			if err := tx.Create(&Location{UserID: u.ID, Latitude: &lat, Longitude: &lon, City: "Singapore", Country: "SG"}).Error; err != nil {
				return err
			}
			if err := tx.Create(&FameRating{UserID: u.ID}).Error; err != nil {
				return err
			}
			for _, idx := range r.Perm(len(Interests))[:3] {
				if err := tx.Create(&Interest{UserID: u.ID, Tag: Interests[idx]}).Error; err != nil {
					return err
				}
			}
			return tx.Create(&Picture{UserID: u.ID, Path: fmt.Sprintf("/pictures/%d/1.jpg", u.ID), IsProfile: true}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		people = append(people, u)
	}
	applog.Info("Seeded users", "count", len(people))

	// --- Seed likes ---
	if like == nil || len(people) < 2 {
		return nil
	}
	counter := 0
	for _, actor := range people {
		for j := 0; j < 4; j++ {
			target := people[r.Intn(len(people))]
			if target.ID == actor.ID {
				continue
			}
			if err := like(ctx, actor.ID, target.ID); err != nil {
				return fmt.Errorf("failed to seed like %d -> %d: %w", actor.ID, target.ID, err)
			}
			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				if err := like(ctx, target.ID, actor.ID); err != nil {
					return fmt.Errorf("failed to seed like %d -> %d: %w", target.ID, actor.ID, err)
				}
			}
			counter++
		}
	}
	applog.Info("Seeded likes", "count", counter)

	return nil
}
