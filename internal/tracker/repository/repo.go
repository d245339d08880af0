// Package repository provides pgx-backed persistence for projects and bugs.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Migrate creates the schema. Bugs carry a composite primary key
// (project_id, id): bug IDs only have to be unique within their project, and
// the key is what turns a concurrent duplicate allocation into a clean
// unique-violation instead of a silent overwrite.
func (r *Repo) Migrate(ctx context.Context) error {
	const schema = `
create table if not exists projects (
	id         text primary key,
	name       text not null,
	color      text not null default '',
	created_at timestamptz not null default now()
);

create table if not exists bugs (
	id                 text not null,
	project_id         text not null references projects(id) on delete cascade,
	title              text not null,
	steps_to_reproduce text not null default '',
	actual_result      text not null default '',
	expected_result    text not null default '',
	priority           text not null,
	device             text not null default '',
	screenshot_url     text not null default '',
	created_at         timestamptz not null default now(),
	primary key (project_id, id)
);

create table if not exists users (
	email         text primary key,
	password_hash text not null,
	created_at    timestamptz not null default now()
);
`
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ListProjects returns all projects with their bugs embedded, oldest project
// first, bugs in creation order.
func (r *Repo) ListProjects(ctx context.Context) ([]domain.Project, error) {
	const q = `
select id, name, color, created_at
from projects
order by created_at, id;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Bugs = []domain.Bug{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bugs, err := r.listBugs(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, b := range bugs {
		if i, ok := index[b.ProjectID]; ok {
			out[i].Bugs = append(out[i].Bugs, b)
		}
	}
	return out, nil
}

// GetProject returns a single project with its bugs, or domain.ErrNotFound.
func (r *Repo) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
select id, name, color, created_at
from projects
where id = $1;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	p.Bugs, err = r.listBugs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) listBugs(ctx context.Context, projectID string) ([]domain.Bug, error) {
	q := `
select id, project_id, title, steps_to_reproduce, actual_result, expected_result,
       priority, device, screenshot_url, created_at
from bugs
`
	args := []any{}
	if projectID != "" {
		q += "where project_id = $1\n"
		args = append(args, projectID)
	}
	q += "order by created_at, id;"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Bug{}
	for rows.Next() {
		var b domain.Bug
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Title, &b.StepsToReproduce, &b.ActualResult,
			&b.ExpectedResult, &b.Priority, &b.Device, &b.ScreenshotURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateProject inserts a project with its client-minted ID. A taken ID
// comes back as domain.ErrDuplicateID so the client can re-mint and retry.
func (r *Repo) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if p.Name == "" {
		return nil, domain.ErrNameRequired
	}

	const q = `
insert into projects (id, name, color)
values ($1, $2, $3)
returning id, name, color, created_at;
`
	var created domain.Project
	err := r.db.QueryRow(ctx, q, p.ID, p.Name, p.Color).
		Scan(&created.ID, &created.Name, &created.Color, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateID
		}
		return nil, err
	}
	created.Bugs = []domain.Bug{}
	return &created, nil
}

// DeleteProject removes a project; its bugs go with it via the cascade.
func (r *Repo) DeleteProject(ctx context.Context, id string) error {
	const q = `delete from projects where id = $1;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateBug inserts a bug under its project. The composite primary key
// rejects a duplicate (project_id, id) pair with domain.ErrDuplicateID; a
// missing project surfaces as domain.ErrNotFound.
func (r *Repo) CreateBug(ctx context.Context, b domain.Bug) (*domain.Bug, error) {
	const q = `
insert into bugs (id, project_id, title, steps_to_reproduce, actual_result, expected_result,
                  priority, device, screenshot_url)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
returning id, project_id, title, steps_to_reproduce, actual_result, expected_result,
          priority, device, screenshot_url, created_at;
`
	var created domain.Bug
	err := r.db.QueryRow(ctx, q, b.ID, b.ProjectID, b.Title, b.StepsToReproduce, b.ActualResult,
		b.ExpectedResult, b.Priority, b.Device, b.ScreenshotURL).
		Scan(&created.ID, &created.ProjectID, &created.Title, &created.StepsToReproduce,
			&created.ActualResult, &created.ExpectedResult, &created.Priority, &created.Device,
			&created.ScreenshotURL, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return nil, domain.ErrDuplicateID
			case pgForeignKeyViolation:
				return nil, domain.ErrNotFound
			}
		}
		return nil, err
	}
	return &created, nil
}

// DeleteBug removes one bug by its composite key. Filtering on both columns
// is what keeps "BUG-1" in one project safe from deletes aimed at another.
func (r *Repo) DeleteBug(ctx context.Context, projectID, bugID string) error {
	const q = `delete from bugs where id = $1 and project_id = $2;`
	ct, err := r.db.Exec(ctx, q, bugID, projectID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
