package database

import (
	"log"
	"time"

	"github.com/ThatPopcorn/rateAmovie/shared/database/models"
	utils "github.com/ThatPopcorn/rateAmovie/shared/utils/auth"
)

// SeedDatabase seeds the database with a demo account and a starter catalog
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	demoUser, created, err := seedDemoUser()
	if err != nil {
		return err
	}

	moviesCreated, err := seedMovies(demoUser)
	if err != nil {
		return err
	}

	if created || moviesCreated > 0 {
		log.Printf("✅ Database seeding completed (%d movies created)", moviesCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

// seedDemoUser creates the demo account used for local development
func seedDemoUser() (*models.User, bool, error) {
	var existing models.User
	if err := DB.Where("email = ?", "demo@rateamovie.local").First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	hashedPassword, err := utils.HashPassword("demopassword")
	if err != nil {
		return nil, false, err
	}

	user := models.User{
		Username: "demo",
		Email:    "demo@rateamovie.local",
		Password: hashedPassword,
		Bio:      "Demo account",
	}

	if err := DB.Create(&user).Error; err != nil {
		return nil, false, err
	}

	log.Println("👤 Demo user created: demo@rateamovie.local")
	return &user, true, nil
}

// seedMovies creates a small starter catalog so a fresh install is not empty
func seedMovies(creator *models.User) (int, error) {
	releaseDate := func(value string) *time.Time {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil
		}
		return &t
	}

	movies := []models.Movie{
		{
			Title:       "The Matrix",
			Description: "A hacker discovers the world he lives in is a simulation.",
			ReleaseDate: releaseDate("1999-03-31"),
			Director:    "The Wachowskis",
			Cast:        "Keanu Reeves, Laurence Fishburne, Carrie-Anne Moss",
		},
		{
			Title:       "Spirited Away",
			Description: "A girl wanders into a world of spirits and must find her way home.",
			ReleaseDate: releaseDate("2001-07-20"),
			Director:    "Hayao Miyazaki",
			Cast:        "Rumi Hiiragi, Miyu Irino",
		},
		{
			Title:       "12 Angry Men",
			Description: "A jury deliberates the fate of a young defendant.",
			ReleaseDate: releaseDate("1957-04-10"),
			Director:    "Sidney Lumet",
			Cast:        "Henry Fonda, Lee J. Cobb",
		},
	}

	created := 0
	for _, movie := range movies {
		var existing models.Movie
		if err := DB.Where("title = ?", movie.Title).First(&existing).Error; err == nil {
			continue
		}

		movie.UserID = &creator.ID
		if err := DB.Create(&movie).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
