// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DevUserEmail identifies the development user created by Seed.
const DevUserEmail = "dev@foliocraft.local"

type seedProject struct {
	title, description string
	tags               []string
	repo               string
}

var seedProjects = []seedProject{
	{"Weather Station", "Raspberry Pi sensors streaming to a Grafana board.", []string{"Go", "MQTT"}, "https://github.com/example/weather"},
	{"Recipe Box", "Offline-first recipe manager with sync.", []string{"TypeScript", "SQLite"}, ""},
	{"Ledger CLI", "Plain-text double entry accounting tool.", []string{"Go", "CLI"}, "https://github.com/example/ledger"},
	{"Trail Maps", "Vector tile server for hiking trails.", []string{"Go", "PostGIS"}, ""},
	{"Chess Clock", "Tournament chess clock for the browser.", []string{"Svelte"}, ""},
	{"Budget Bot", "Chat bot that categorises card payments.", []string{"Python"}, ""},
	{"Photo Dedupe", "Perceptual hashing to find duplicate photos.", []string{"Go", "Imaging"}, "https://github.com/example/dedupe"},
	{"Status Page", "Self-hosted uptime and incident page.", []string{"Go", "Valkey"}, ""},
	{"Reading List", "Browser extension that syncs articles to e-readers.", []string{"JavaScript"}, ""},
	{"Home Lab", "Infrastructure as code for a three node cluster.", []string{"Terraform", "Ansible"}, ""},
}

// Seed populates the database with development data: one user and ten
// projects to pick from. It does nothing when any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "Ada", "Lovelace", DevUserEmail).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	for i, p := range seedProjects {
		tags, err := json.Marshal(p.tags)
		if err != nil {
			return fmt.Errorf("seed marshal tags: %w", err)
		}
		var repo *string
		if p.repo != "" {
			repo = &p.repo
		}
		// Stagger creation times so the newest-first listing is stable.
		_, err = tx.Exec(`
			INSERT INTO projects (owner_id, title, description, tags, repo_url, created_at)
			VALUES ($1, $2, $3, $4, $5, now() - make_interval(days => $6))
		`, userID, p.title, p.description, tags, repo, i)
		if err != nil {
			return fmt.Errorf("seed insert project %q: %w", p.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development user",
		"email", DevUserEmail,
		"projects", len(seedProjects),
	)
	return nil
}
