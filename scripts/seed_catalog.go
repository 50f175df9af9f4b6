// seed_catalog.go loads the scholarship and success-story JSON files into the
// Postgres catalog tables read by catalog.source=postgres.
//
// Usage:
//
//	go run scripts/seed_catalog.go -db postgres://localhost/northstar -scholarships data/scholarships.json -stories data/success_stories.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Northstar/internal/catalog"
)

func main() {
	dbURL := flag.String("db", os.Getenv("NORTHSTAR_DATABASE_URL"), "Postgres connection URL")
	scholarshipsPath := flag.String("scholarships", "data/scholarships.json", "path to scholarships JSON")
	storiesPath := flag.String("stories", "data/success_stories.json", "path to success stories JSON")
	dryRun := flag.Bool("dry-run", false, "validate files without writing")
	flag.Parse()

	data, err := os.ReadFile(*scholarshipsPath)
	if err != nil {
		log.Fatalf("read scholarships: %v", err)
	}
	raw, err := catalog.DecodeScholarships(data)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var narratives []catalog.Narrative
	if *storiesPath != "" {
		data, err := os.ReadFile(*storiesPath)
		if err != nil {
			log.Fatalf("read stories: %v", err)
		}
		narratives, err = catalog.DecodeNarratives(data)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	// Same validation the service applies at startup.
	snap, err := catalog.NewSnapshot(raw, narratives)
	if err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}
	log.Printf("parsed %d scholarships and %d stories", snap.Len(), len(narratives))

	if *dryRun {
		ctx := context.Background()
		all, _ := snap.List(ctx)
		for i, s := range all {
			fmt.Printf("[%d] %s (%s, legal_status=%s)\n", i+1, s.Title, s.ID, s.LegalStatus)
		}
		return
	}

	if *dbURL == "" {
		log.Fatal("missing -db or NORTHSTAR_DATABASE_URL")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := catalog.Seed(ctx, pool, raw, narratives); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("done: %d scholarships, %d stories", len(raw), len(narratives))
}
