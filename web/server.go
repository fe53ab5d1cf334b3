// Package web serves a small read-only status API.
package web

import (
	"context"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common"
	"github.com/starshine-sys/griffin/common/log"
	"github.com/starshine-sys/griffin/config"
	"github.com/starshine-sys/griffin/db"
)

// Cogs lists cogs. *plugin.Manager satisfies it.
type Cogs interface {
	Active() []string
	Inactive() []string
}

type Options struct {
	Cogs Cogs
	// Surface is used to list each active cog's commands. Optional.
	Surface *command.Surface
	Counts  *config.Counts
	Start   time.Time
	// DB is optional.
	DB *db.DB
	// Status returns the bot's presence status. Optional.
	Status func() string
	// Guilds returns the number of guilds the bot is in, used if the database isn't connected. Optional.
	Guilds func() int
}

type Server struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Server {
	if opts.Counts == nil {
		opts.Counts = &config.Counts{}
	}
	return &Server{opts: opts, now: time.Now}
}

// Router returns the API's routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)
	r.Get("/cogs", s.cogs)
	r.Get("/stats", s.stats)

	return r
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Status API listening on %v", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving status API")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "shutting down status API")
	}
	return nil
}

type healthResponse struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:   "ok",
		Database: s.opts.DB != nil && s.opts.DB.Connected(),
	})
}

type cogsResponse struct {
	Active   []string            `json:"active"`
	Inactive []string            `json:"inactive"`
	Commands map[string][]string `json:"commands,omitempty"`
}

func (s *Server) cogs(w http.ResponseWriter, r *http.Request) {
	resp := cogsResponse{Active: []string{}, Inactive: []string{}}
	if s.opts.Cogs != nil {
		resp.Active = append(resp.Active, s.opts.Cogs.Active()...)
		resp.Inactive = append(resp.Inactive, s.opts.Cogs.Inactive()...)
	}

	if s.opts.Surface != nil {
		resp.Commands = make(map[string][]string, len(resp.Active))
		for _, cog := range resp.Active {
			names := []string{}
			for _, cmd := range s.opts.Surface.Commands(cog) {
				names = append(names, cmd.Name)
			}
			resp.Commands[cog] = names
		}
	}

	render.JSON(w, r, resp)
}

type statsResponse struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Status        string `json:"status,omitempty"`
	Cogs          int    `json:"cogs"`
	Commands      int    `json:"commands"`
	Guilds        *int64 `json:"guilds,omitempty"`
	Version       string `json:"version"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	uptime := s.now().Sub(s.opts.Start)

	resp := statsResponse{
		Uptime:        common.FormatUptime(uptime),
		UptimeSeconds: int64(uptime / time.Second),
		Cogs:          s.opts.Counts.Cogs(),
		Commands:      s.opts.Counts.Commands(),
		Version:       common.Version(),
	}

	if s.opts.Status != nil {
		resp.Status = s.opts.Status()
	}

	if s.opts.DB != nil && s.opts.DB.Connected() {
		count, err := s.opts.DB.GuildCount(r.Context())
		if err != nil {
			log.Errorf("Error getting guild count: %v", err)
		} else {
			resp.Guilds = &count
		}
	} else if s.opts.Guilds != nil {
		count := int64(s.opts.Guilds())
		resp.Guilds = &count
	}

	render.JSON(w, r, resp)
}
