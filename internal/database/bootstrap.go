package database

import (
	"context"
	"errors"
	"fmt"

	"refurb-catalog/internal/auth"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// BootstrapOptions configures the one-time seed that runs before the server
// accepts traffic.
type BootstrapOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	SeedCatalog   bool
}

type seedCategory struct {
	Name, Slug, Description, Icon string
}

var defaultCategories = []seedCategory{
	{Name: "Laptops", Slug: "laptops", Description: "Premium refurbished laptops", Icon: "laptop"},
	{Name: "Desktops", Slug: "desktops", Description: "Powerful desktop computers", Icon: "desktop"},
	{Name: "Mobiles", Slug: "mobiles", Description: "Quality smartphones", Icon: "mobile"},
	{Name: "Accessories", Slug: "accessories", Description: "Essential tech accessories", Icon: "accessories"},
}

type bootstrapStep struct {
	name string
	run  func(ctx context.Context, tx *sqlx.Tx) error
}

// Bootstrap seeds the admin account and, optionally, the default catalog in
// a single transaction. Any failing step rolls back every step.
func Bootstrap(ctx context.Context, db *sqlx.DB, opts BootstrapOptions, logger *zap.Logger) (err error) {
	if opts.AdminUsername == "" || opts.AdminEmail == "" || opts.AdminPassword == "" {
		return errors.New("admin username, email and password are required")
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	steps := []bootstrapStep{
		{name: "admin user", run: func(ctx context.Context, tx *sqlx.Tx) error {
			return seedAdmin(ctx, tx, opts.AdminUsername, opts.AdminEmail, hash)
		}},
	}
	if opts.SeedCatalog {
		steps = append(steps,
			bootstrapStep{name: "default categories", run: seedCategories},
			bootstrapStep{name: "sample products", run: seedSampleProducts},
		)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bootstrap transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Failed to roll back bootstrap", zap.Error(rbErr))
			}
		}
	}()

	for _, step := range steps {
		if err = step.run(ctx, tx); err != nil {
			return fmt.Errorf("bootstrap step %q failed: %w", step.name, err)
		}
		logger.Debug("Bootstrap step completed", zap.String("step", step.name))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bootstrap: %w", err)
	}

	logger.Info("Database bootstrap completed",
		zap.String("admin", opts.AdminUsername),
		zap.Bool("seed_catalog", opts.SeedCatalog),
	)
	return nil
}

// seedAdmin creates the admin on first start. An existing account keeps its
// password so that password changes survive restarts.
func seedAdmin(ctx context.Context, tx *sqlx.Tx, username, email, hash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, email, password, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE
		SET username = EXCLUDED.username,
		    role = 'admin'
	`, username, email, hash)
	return err
}

func seedCategories(ctx context.Context, tx *sqlx.Tx) error {
	for _, c := range defaultCategories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, slug, description, icon)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO NOTHING
		`, c.Name, c.Slug, c.Description, c.Icon)
		if err != nil {
			return fmt.Errorf("category %s: %w", c.Slug, err)
		}
	}
	return nil
}

func seedSampleProducts(ctx context.Context, tx *sqlx.Tx) error {
	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var laptopsID int64
	if err := tx.GetContext(ctx, &laptopsID, `SELECT id FROM categories WHERE slug = 'laptops'`); err != nil {
		return fmt.Errorf("laptops category: %w", err)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO products (
			name, slug, description, price, original_price, category_id,
			brand, processor, ram, storage, display, condition, warranty,
			stock_status, is_featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (slug) DO NOTHING
	`,
		"Dell Latitude 7490",
		"dell-latitude-7490",
		"Premium business laptop with a 14\" FHD display and a fast SSD.",
		"28999",
		"45000",
		laptopsID,
		"Dell",
		"Intel Core i5 8th Gen",
		"8GB DDR4",
		"256GB SSD",
		"14\" FHD",
		"Excellent",
		"3 Months",
		"in_stock",
		true,
	)
	return err
}
