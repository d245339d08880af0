// Command bugly is the terminal dashboard for the tracker: it drives the
// synchronization store against the API and prints the resulting snapshot.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/config"
	"github.com/highimexy/Bugly/internal/dashboard/client"
	"github.com/highimexy/Bugly/internal/dashboard/session"
	"github.com/highimexy/Bugly/internal/dashboard/share"
	"github.com/highimexy/Bugly/internal/dashboard/store"
	"github.com/highimexy/Bugly/internal/tracker/domain"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	app := newApp(cfg.App.APIURL)
	defer app.store.Close()

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bugly <command> [args]

  login <email> <password>
  logout
  projects
  add-project <name> <color>
  rm-project <project-id>
  bugs [project-id]
  add-bug <project-id> <title> [priority]
  rm-bug <project-id> <bug-id>
  share <project-id>`)
}

type app struct {
	session *session.Session
	store   *store.Store
	apiURL  string
}

func newApp(apiURL string) *app {
	api := client.New(apiURL)
	sess := session.New(api)
	if token, err := os.ReadFile(tokenPath()); err == nil {
		sess.Resume(strings.TrimSpace(string(token)))
	}
	return &app{
		session: sess,
		store:   store.New(api, sess),
		apiURL:  apiURL,
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: bugly login <email> <password>")
		}
		if err := a.session.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		return a.saveToken()

	case "logout":
		a.session.Logout()
		return os.Remove(tokenPath())

	case "projects":
		if err := a.store.Refresh(ctx); err != nil {
			return err
		}
		projects, _ := a.store.Snapshot()
		if len(projects) == 0 {
			fmt.Println("no projects (are you logged in?)")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %-20s  %s  %d bugs\n", p.ID, p.Name, p.Color, len(p.Bugs))
		}
		return nil

	case "add-project":
		if len(args) < 2 {
			return fmt.Errorf("usage: bugly add-project <name> <color>")
		}
		id, err := a.store.AddProject(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "rm-project":
		if len(args) < 1 {
			return fmt.Errorf("usage: bugly rm-project <project-id>")
		}
		return a.store.DeleteProject(ctx, args[0])

	case "bugs":
		if err := a.store.Refresh(ctx); err != nil {
			return err
		}
		_, bugs := a.store.Snapshot()
		for _, b := range bugs {
			if len(args) > 0 && b.ProjectID != args[0] {
				continue
			}
			fmt.Printf("%s/%s  [%s]  %s\n", b.ProjectID, b.ID, b.Priority, b.Title)
		}
		return nil

	case "add-bug":
		if len(args) < 2 {
			return fmt.Errorf("usage: bugly add-bug <project-id> <title> [priority]")
		}
		priority := domain.PriorityMedium
		if len(args) > 2 {
			priority = domain.Priority(args[2])
		}
		if err := a.store.Refresh(ctx); err != nil {
			return err
		}
		return a.store.AddBug(ctx, domain.BugDraft{
			ProjectID: args[0],
			Title:     args[1],
			Priority:  priority,
		})

	case "rm-bug":
		if len(args) < 2 {
			return fmt.Errorf("usage: bugly rm-bug <project-id> <bug-id>")
		}
		return a.store.DeleteBug(ctx, args[1], args[0])

	case "share":
		if len(args) < 1 {
			return fmt.Errorf("usage: bugly share <project-id>")
		}
		// the share view is deliberately served by the isolated reader,
		// not the store: it works logged out and sees one project only
		reader := share.NewReader(a.apiURL)
		if err := reader.Load(ctx, args[0]); err != nil {
			return err
		}
		state, project := reader.State()
		if state == share.StateNotFound {
			fmt.Println("project does not exist or the link has expired")
			return nil
		}
		fmt.Printf("%s (%s) — public bug list\n", project.Name, project.ID)
		for _, b := range project.Bugs {
			fmt.Printf("  %s  [%s]  %s\n", b.ID, b.Priority, b.Title)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) saveToken() error {
	token, ok := a.session.Token()
	if !ok {
		return nil
	}
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".bugly", "token")
}
