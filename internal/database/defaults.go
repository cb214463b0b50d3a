package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/milovmv/larek/internal/database/repository"
)

func synapses(v int64) *int64 { return &v }

// demoCatalog is the catalog served in local mode. One product is priceless
// on purpose: the whole "cannot be bought" path needs something to exercise
// it.
var demoCatalog = []repository.Product{
	{Title: "+1 hour in a day", Description: "If you are tired but cannot sleep, this will help.", Price: synapses(750), Category: "soft-skill", Image: "/5_Dots.svg"},
	{Title: "Self-doubt backup", Description: "Store your doubts somewhere safe before a deploy.", Price: synapses(1000), Category: "other", Image: "/Shell.svg"},
	{Title: "Framework syncretic", Description: "Connects any two frameworks that were never meant to meet.", Price: synapses(2500), Category: "additional", Image: "/Polygon.svg"},
	{Title: "Bug-repellent amulet", Description: "Does not fix bugs, merely keeps new ones at a distance.", Price: synapses(1450), Category: "button", Image: "/Butterfly.svg"},
	{Title: "Combinator grant", Description: "Awarded for combining things that still compile afterwards.", Price: nil, Category: "other", Image: "/Dots.svg"},
	{Title: "Mamka-timer", Description: "Reminds you to eat while refactoring.", Price: synapses(175), Category: "soft-skill", Image: "/Soft_Flower.svg"},
	{Title: "Focus grenade", Description: "Clears every open tab within a three-meter radius.", Price: synapses(1250), Category: "hard-skill", Image: "/Asterisk_2.svg"},
	{Title: "Backward-compat glue", Description: "Holds the old API together while you pretend it is new.", Price: synapses(980), Category: "additional", Image: "/Leaf.svg"},
}

// SeedDefaults loads the demo catalog into an empty products table.
// Idempotent: a non-empty table is left alone.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewProductRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return Reseed(ctx, db)
}

// Reseed upserts the demo catalog unconditionally. Product ids are derived
// from titles so reseeding never duplicates rows.
func Reseed(ctx context.Context, db *sql.DB) error {
	repo := repository.NewProductRepo(db)
	for _, p := range demoCatalog {
		p.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("product:"+p.Title)).String()
		if err := repo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
