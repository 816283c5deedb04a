// Package main implements a standalone seed script that populates the
// storefront database with a small pet-product catalog, plus ratings and
// comments so the badge and display-score pipeline has real data to work
// with. It runs the schema migrations first, so it can be pointed at an
// empty database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawmart/PetShopGo/internal/config"
	"github.com/pawmart/PetShopGo/internal/sentiment"
	"github.com/pawmart/PetShopGo/migrations"
	"github.com/pawmart/PetShopGo/pkg/database"
	"github.com/pawmart/PetShopGo/pkg/logger"
)

type productDef struct {
	name        string
	slug        string
	description string
	price       int64
	imageURL    string
	category    string
	stock       int
	ownerUID    string
	ownerName   string
	ownerHandle string
	ageDays     int

	ratings  []ratingDef
	comments []commentDef
}

type ratingDef struct {
	user  string
	value int
}

type commentDef struct {
	user string
	body string

	votes []voteDef
}

type voteDef struct {
	user      string
	direction int
}

var products = []productDef{
	{
		name:        "Squeaky Bone",
		slug:        "squeaky-bone",
		description: "Durable rubber bone with a squeaker that survives even determined chewers.",
		price:       1299,
		imageURL:    "https://images.pawmart.dev/squeaky-bone.jpg",
		category:    "dogs",
		stock:       24,
		ownerUID:    "owner-alice",
		ownerName:   "Alice",
		ownerHandle: "alice-toys",
		ageDays:     120,
		ratings: []ratingDef{
			{"bob", 5}, {"carol", 5}, {"dave", 4}, {"erin", 5},
		},
		comments: []commentDef{
			{
				user: "bob",
				body: "My retriever absolutely loves this bone, best toy we have ever bought.",
				votes: []voteDef{
					{"carol", 1}, {"dave", 1}, {"erin", 1},
				},
			},
			{
				user: "carol",
				body: "Great quality and the squeaker still works after two months.",
				votes: []voteDef{
					{"bob", 1},
				},
			},
		},
	},
	{
		name:        "Feather Wand",
		slug:        "feather-wand",
		description: "Interactive feather teaser wand for daily play sessions.",
		price:       899,
		imageURL:    "https://images.pawmart.dev/feather-wand.jpg",
		category:    "cats",
		stock:       40,
		ownerUID:    "owner-alice",
		ownerName:   "Alice",
		ownerHandle: "alice-toys",
		ageDays:     90,
		ratings: []ratingDef{
			{"frank", 4}, {"grace", 4}, {"heidi", 3},
		},
		comments: []commentDef{
			{
				user: "frank",
				body: "Good wand, my cat enjoys it although the feathers wear out quickly.",
				votes: []voteDef{
					{"grace", 1}, {"heidi", -1},
				},
			},
		},
	},
	{
		name:        "Salmon Crunch Treats",
		slug:        "salmon-crunch-treats",
		description: "Oven-baked salmon treats with no artificial preservatives.",
		price:       1599,
		imageURL:    "https://images.pawmart.dev/salmon-crunch.jpg",
		category:    "cats",
		stock:       60,
		ownerUID:    "owner-marco",
		ownerName:   "Marco",
		ownerHandle: "marcos-pantry",
		ageDays:     45,
		ratings: []ratingDef{
			{"bob", 5}, {"grace", 5}, {"ivan", 5}, {"judy", 4}, {"frank", 5},
		},
		comments: []commentDef{
			{
				user: "grace",
				body: "Wonderful treats, both of my cats come running the moment the bag opens.",
				votes: []voteDef{
					{"ivan", 1}, {"judy", 1},
				},
			},
			{
				user: "ivan",
				body: "Excellent ingredients and a fantastic smell, highly recommended.",
			},
		},
	},
	{
		name:        "Cozy Cave Bed",
		slug:        "cozy-cave-bed",
		description: "Hooded plush bed for small dogs and cats who like to burrow.",
		price:       3499,
		imageURL:    "https://images.pawmart.dev/cozy-cave.jpg",
		category:    "dogs",
		stock:       12,
		ownerUID:    "owner-marco",
		ownerName:   "Marco",
		ownerHandle: "marcos-pantry",
		ageDays:     200,
		ratings: []ratingDef{
			{"dave", 3}, {"erin", 2},
		},
		comments: []commentDef{
			{
				user: "dave",
				body: "The bed is okay but smaller than the pictures suggest.",
				votes: []voteDef{
					{"erin", 1},
				},
			},
			{
				user: "erin",
				body: "Disappointing stitching, it started coming apart after a week.",
				votes: []voteDef{
					{"dave", 1}, {"bob", -1},
				},
			},
		},
	},
	{
		name:        "Trail Harness",
		slug:        "trail-harness",
		description: "Padded no-pull harness with reflective trim for evening walks.",
		price:       2799,
		imageURL:    "https://images.pawmart.dev/trail-harness.jpg",
		category:    "dogs",
		stock:       18,
		ownerUID:    "owner-priya",
		ownerName:   "Priya",
		ownerHandle: "priya-outdoors",
		ageDays:     30,
		ratings: []ratingDef{
			{"judy", 4},
		},
		comments: []commentDef{
			{
				user: "judy",
				body: "Solid harness, fits well and the clips feel sturdy.",
			},
		},
	},
	{
		// No ratings or comments: exercises the recently-added badge path.
		name:        "Bubbling Aquarium Stone",
		slug:        "bubbling-aquarium-stone",
		description: "Air stone that produces a fine curtain of bubbles for tanks up to 100L.",
		price:       749,
		imageURL:    "https://images.pawmart.dev/aquarium-stone.jpg",
		category:    "fish",
		stock:       50,
		ownerUID:    "owner-priya",
		ownerName:   "Priya",
		ownerHandle: "priya-outdoors",
		ageDays:     3,
	},
}

func main() {
	log := logger.New("petshop-seed", "info")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		MaxConns: 5,
		MinConns: 1,
	}
	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed(ctx, pool, log); err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seeding complete", slog.Int("products", len(products)))
}

func seed(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	scorer := sentiment.NewScorer()
	now := time.Now().UTC()

	for _, p := range products {
		productID := uuid.New().String()
		createdAt := now.AddDate(0, 0, -p.ageDays)

		tag, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, slug, description, price, image_url, category, stock, max_stock, owner_uid, owner_name, owner_handle, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, $10, $11, $12, $12)
			ON CONFLICT (name) DO NOTHING`,
			productID, p.name, p.slug, p.description, p.price, p.imageURL,
			p.category, p.stock, p.ownerUID, p.ownerName, p.ownerHandle, createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.name, err)
		}
		if tag.RowsAffected() == 0 {
			log.Info("product already seeded, skipping", slog.String("name", p.name))
			continue
		}

		for _, r := range p.ratings {
			_, err := pool.Exec(ctx, `
				INSERT INTO product_ratings (id, product_id, user_name, rating, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $5)
				ON CONFLICT (product_id, user_name) DO NOTHING`,
				uuid.New().String(), productID, r.user, r.value, createdAt.Add(24*time.Hour),
			)
			if err != nil {
				return fmt.Errorf("insert rating for %q: %w", p.name, err)
			}
		}

		for _, c := range p.comments {
			commentID := uuid.New().String()
			score := scorer.Score(c.body)

			_, err := pool.Exec(ctx, `
				INSERT INTO product_comments (id, product_id, user_name, body, sentiment_score, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $6)`,
				commentID, productID, c.user, c.body, score, createdAt.Add(48*time.Hour),
			)
			if err != nil {
				return fmt.Errorf("insert comment for %q: %w", p.name, err)
			}

			for _, v := range c.votes {
				_, err := pool.Exec(ctx, `
					INSERT INTO product_comment_votes (id, comment_id, user_name, direction, created_at)
					VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (comment_id, user_name) DO NOTHING`,
					uuid.New().String(), commentID, v.user, v.direction, createdAt.Add(72*time.Hour),
				)
				if err != nil {
					return fmt.Errorf("insert vote for %q: %w", p.name, err)
				}
			}
		}

		log.Info("seeded product",
			slog.String("name", p.name),
			slog.String("category", p.category),
			slog.Int("ratings", len(p.ratings)),
			slog.Int("comments", len(p.comments)),
		)
	}

	return nil
}
