// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foliocraft/internal/draft"
	"foliocraft/internal/models"
)

// PortfolioStore persists portfolios and their ordered project links. It
// implements draft.Persister.
type PortfolioStore struct {
	db *sql.DB
}

var _ draft.Persister = (*PortfolioStore)(nil)

// NewPortfolioStore creates a new PortfolioStore with the given database connection.
func NewPortfolioStore(db *sql.DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// CreatePortfolio inserts a portfolio for owner and links the referenced
// projects in payload order. Every project must belong to owner.
func (s *PortfolioStore) CreatePortfolio(ctx context.Context, owner uuid.UUID, req *draft.Request) (*models.Portfolio, error) {
	var p models.Portfolio
	req.Apply(&p)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create portfolio: begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO portfolios (owner_id, template, title, about, job_title,
			github_url, linkedin_url, website_url, cv_download_url,
			years_of_experience, skills, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, owner, string(p.Template), p.Title, p.About, p.JobTitle,
		p.GithubURL, p.LinkedinURL, p.WebsiteURL, p.CVDownloadURL,
		p.YearsOfExperience, stringList(p.Skills), p.IsPublic,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}

	if err := linkProjects(ctx, tx, id, owner, req.ProjectIDs); err != nil {
		return nil, fmt.Errorf("create portfolio: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create portfolio: commit: %w", err)
	}
	return s.mustFind(ctx, id)
}

// UpdatePortfolio replaces every field and the project links of an
// existing portfolio. Returns ErrNotFound if id does not exist or belongs
// to another owner.
func (s *PortfolioStore) UpdatePortfolio(ctx context.Context, id int64, owner uuid.UUID, req *draft.Request) (*models.Portfolio, error) {
	var p models.Portfolio
	req.Apply(&p)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update portfolio: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE portfolios SET template = $3, title = $4, about = $5, job_title = $6,
			github_url = $7, linkedin_url = $8, website_url = $9, cv_download_url = $10,
			years_of_experience = $11, skills = $12, is_public = $13, updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`, id, owner, string(p.Template), p.Title, p.About, p.JobTitle,
		p.GithubURL, p.LinkedinURL, p.WebsiteURL, p.CVDownloadURL,
		p.YearsOfExperience, stringList(p.Skills), p.IsPublic,
	)
	if err != nil {
		return nil, fmt.Errorf("update portfolio: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update portfolio: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("update portfolio %d: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_projects WHERE portfolio_id = $1`, id); err != nil {
		return nil, fmt.Errorf("update portfolio: clear projects: %w", err)
	}
	if err := linkProjects(ctx, tx, id, owner, req.ProjectIDs); err != nil {
		return nil, fmt.Errorf("update portfolio: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update portfolio: commit: %w", err)
	}
	return s.mustFind(ctx, id)
}

// linkProjects inserts the ordered project references. A project that is
// missing or owned by someone else aborts the transaction.
func linkProjects(ctx context.Context, tx *sql.Tx, portfolioID int64, owner uuid.UUID, ids []int64) error {
	for pos, pid := range ids {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO portfolio_projects (portfolio_id, project_id, position)
			SELECT $1, id, $2 FROM projects WHERE id = $3 AND owner_id = $4
		`, portfolioID, pos, pid, owner)
		if err != nil {
			return fmt.Errorf("link project %d: %w", pid, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("link project %d: %w", pid, err)
		} else if n == 0 {
			return fmt.Errorf("link project %d: %w", pid, ErrNotFound)
		}
	}
	return nil
}

const portfolioColumns = `p.id, p.owner_id, p.template, p.title, p.about, p.job_title,
	p.github_url, p.linkedin_url, p.website_url, p.cv_download_url,
	p.years_of_experience, p.skills, p.is_public, p.created_at, p.updated_at,
	u.id, u.first_name, u.last_name, u.email, u.avatar_url, u.banner_url, u.created_at, u.updated_at`

// FindByID retrieves a portfolio with its owner and linked projects in
// payload order. Returns nil if not found.
func (s *PortfolioStore) FindByID(ctx context.Context, id int64) (*models.Portfolio, error) {
	var (
		p      models.Portfolio
		tmpl   string
		skills stringList
	)
	u := &p.User
	err := s.db.QueryRowContext(ctx, `
		SELECT `+portfolioColumns+`
		FROM portfolios p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`, id).Scan(
		&p.ID, &p.OwnerID, &tmpl, &p.Title, &p.About, &p.JobTitle,
		&p.GithubURL, &p.LinkedinURL, &p.WebsiteURL, &p.CVDownloadURL,
		&p.YearsOfExperience, &skills, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.AvatarURL, &u.BannerURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find portfolio: %w", err)
	}
	p.Template = models.TemplateID(tmpl)
	p.Skills = skills

	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.id, pr.owner_id, pr.title, pr.description, pr.tags, pr.repo_url, pr.demo_url, pr.created_at
		FROM portfolio_projects pp
		JOIN projects pr ON pr.id = pp.project_id
		WHERE pp.portfolio_id = $1
		ORDER BY pp.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find portfolio projects: %w", err)
	}
	defer rows.Close()

	p.Projects = []models.Project{}
	for rows.Next() {
		pr, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio project: %w", err)
		}
		p.Projects = append(p.Projects, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find portfolio projects: %w", err)
	}
	return &p, nil
}

func (s *PortfolioStore) mustFind(ctx context.Context, id int64) (*models.Portfolio, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("portfolio %d: %w", id, ErrNotFound)
	}
	return p, nil
}
