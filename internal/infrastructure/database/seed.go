package database

import (
	"context"
	"fmt"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/constants"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	name, email, role string
}

type seedListing struct {
	title, description, location string
	price                        float64
	owner, agent                 int
}

var (
	seedLandlords = []seedUser{
		{"Alice Landlord", "alice@landlord.com", constants.Landlord},
		{"John Landlord", "john@landlord.com", constants.Landlord},
		{"Mary Landlord", "mary@landlord.com", constants.Landlord},
	}
	seedAgents = []seedUser{
		{"Bob Agent", "bob@agent.com", constants.Agent},
		{"Susan Agent", "susan@agent.com", constants.Agent},
		{"David Agent", "david@agent.com", constants.Agent},
	}
	seedListings = []seedListing{
		{"Modern Apartment", "A beautiful apartment in the city center.", "Nairobi", 1200, 0, 0},
		{"Cozy Cottage", "A peaceful cottage in the countryside.", "Naivasha", 800, 1, 1},
		{"Luxury Villa", "A luxurious villa with a pool and garden.", "Mombasa", 3000, 2, 2},
		{"Urban Loft", "A stylish loft in the heart of the city.", "Nairobi", 1500, 0, 1},
		{"Beach House", "A relaxing house by the beach.", "Diani", 2500, 1, 2},
		{"Mountain Retreat", "A quiet retreat in the mountains.", "Mt. Kenya", 1800, 2, 0},
	}
)

// Seed inserts demo landlords, agents and listings. Running it twice changes nothing.
func Seed(ctx context.Context, db *gorm.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		landlords, err := seedUsers(tx, seedLandlords, string(hash))
		if err != nil {
			return err
		}
		agents, err := seedUsers(tx, seedAgents, string(hash))
		if err != nil {
			return err
		}
		for _, sl := range seedListings {
			agentID := agents[sl.agent].ID
			l := domain.Listing{
				Title:       sl.title,
				Description: sl.description,
				Price:       sl.price,
				Location:    sl.location,
				OwnerID:     landlords[sl.owner].ID,
				AgentID:     &agentID,
			}
			if err := tx.Where("title = ? AND owner_id = ?", l.Title, l.OwnerID).FirstOrCreate(&l).Error; err != nil {
				return fmt.Errorf("seed listing %q: %w", sl.title, err)
			}
		}
		return nil
	})
}

func seedUsers(tx *gorm.DB, users []seedUser, hash string) ([]domain.User, error) {
	out := make([]domain.User, 0, len(users))
	for _, su := range users {
		u := domain.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&u).Error; err != nil {
			return nil, fmt.Errorf("seed user %s: %w", su.email, err)
		}
		if err := tx.Where("email = ?", su.email).First(&u).Error; err != nil {
			return nil, fmt.Errorf("load user %s: %w", su.email, err)
		}
		out = append(out, u)
	}
	return out, nil
}
