package main

import (
	"encoding/json"
	"log"
	"os"

	"ai-roleplay-be/internal/model"
	"ai-roleplay-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds one demo work with two characters and a small lorebook, enough to
// open a session and play immediately.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo work...")

	var existing model.Work
	if err := db.Where("title = ?", "Lanterns of Hoshimachi").First(&existing).Error; err == nil {
		log.Println("Demo work already exists, skipping...")
		return
	}

	work := model.Work{
		Id:          uuid.New(),
		Title:       "Lanterns of Hoshimachi",
		Description: "A slice-of-life story set in a small coastal town where paper lanterns are said to carry wishes out to sea.",
		AuthorId:    uuid.New(),
	}
	if err := db.Create(&work).Error; err != nil {
		log.Fatalf("Error creating work: %v", err)
	}

	characters := []model.Character{
		{
			Id:       uuid.New(),
			WorkId:   work.Id,
			Name:     "Aoi",
			Persona:  "A cheerful lantern maker's apprentice who knows everyone in town. Talks fast, laughs easily, fiercely loyal to her friends.",
			Scenario: "Aoi runs the lantern stall near the harbor and is preparing for the summer festival.",
			Traits:   "cheerful, curious, talkative",
			Greeting: "Oh! A new face in Hoshimachi! You picked a good week to arrive, the festival is almost here.",
		},
		{
			Id:       uuid.New(),
			WorkId:   work.Id,
			Name:     "Kaito",
			Persona:  "A quiet fisherman's son who spends his evenings repairing boats. Slow to trust strangers but honest to a fault.",
			Scenario: "Kaito works the docks and avoids the festival crowds.",
			Traits:   "reserved, honest, observant",
			Greeting: "...You're not from around here. The docks aren't a place for sightseeing.",
		},
	}
	for _, c := range characters {
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("Error creating character %s: %v", c.Name, err)
		}
		log.Printf("Created character: %s", c.Name)
	}

	minIntimacy := 40.0
	minTurns := 10
	entries := []model.LorebookEntry{
		{
			Id:       uuid.New(),
			WorkId:   work.Id,
			Title:    "The Summer Festival",
			Content:  "Every year the town releases hundreds of lanterns from the harbor on the last night of summer. Each lantern carries a written wish.",
			Keywords: mustJSON([]string{"festival", "lantern", "summer"}),
			Priority: 10,
		},
		{
			Id:          uuid.New(),
			WorkId:      work.Id,
			Title:       "The Old Shrine",
			Content:     "Deep in the forest above town stands a shrine that locals only speak of with people they trust. Its bell is said to ring on its own the night before a storm.",
			Keywords:    mustJSON([]string{"shrine", "forest", "bell"}),
			Priority:    5,
			MinIntimacy: &minIntimacy,
			MinTurns:    &minTurns,
		},
	}
	for _, e := range entries {
		if err := db.Create(&e).Error; err != nil {
			log.Fatalf("Error creating lorebook entry %s: %v", e.Title, err)
		}
		log.Printf("Created lorebook entry: %s", e.Title)
	}

	log.Printf("✅ Demo work seeded: %s", work.Id)
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Error marshaling seed data: %v", err)
	}
	return b
}
