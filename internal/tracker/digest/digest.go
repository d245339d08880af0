// Package digest runs the nightly summary job: one log line per project
// with its bug count, so operators can follow tracker growth without a
// metrics stack.
package digest

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// nightly at midnight
const schedule = "0 0 * * *"

const runTimeout = 30 * time.Second

type Lister interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

type Digest struct {
	repo Lister
	cron *cron.Cron
}

func New(repo Lister) *Digest {
	return &Digest{repo: repo, cron: cron.New()}
}

// Start schedules the nightly run.
func (d *Digest) Start() error {
	_, err := d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		d.Run(ctx)
	})
	if err != nil {
		return err
	}

	log.Info().Msg("digest scheduler started (nightly at midnight)")
	d.cron.Start()
	return nil
}

// Stop halts the scheduler; a run already in progress completes.
func (d *Digest) Stop() {
	d.cron.Stop()
}

// Run produces one digest immediately.
func (d *Digest) Run(ctx context.Context) {
	projects, err := d.repo.ListProjects(ctx)
	if err != nil {
		log.Error().Err(err).Msg("digest failed")
		return
	}

	total := 0
	for _, p := range projects {
		log.Info().
			Str("project_id", p.ID).
			Str("name", p.Name).
			Int("bugs", len(p.Bugs)).
			Msg("nightly digest")
		total += len(p.Bugs)
	}
	log.Info().Int("projects", len(projects)).Int("bugs", total).Msg("nightly digest complete")
}
