// Package server implements a small read-only HTTP API for the bot's status and
// per-server configuration.
package server

import (
	"net/http"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/starshine-sys/gatekeeper/bot"
	"github.com/starshine-sys/gatekeeper/common"
)

type Server struct {
	*bot.Bot

	Mux *chi.Mux
}

func New(b *bot.Bot) *Server {
	s := &Server{Bot: b}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.health)
	r.Get("/api/guilds/{id}/config", s.guildConfig)

	s.Mux = r
	return s
}

// Listen serves the API on the given address. It blocks, so call it in a goroutine.
func (s *Server) Listen(addr string) {
	common.Log.Infof("API listening on %v", addr)
	common.Log.Fatal(http.ListenAndServe(addr, s.Mux))
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:  "ok",
		Version: common.Version,
		Uptime:  time.Since(s.Bot.Start).Round(time.Second).String(),
	})
}

type guildConfigResponse struct {
	ID             discord.GuildID   `json:"id"`
	VerifiedRole   discord.RoleID    `json:"verified_role,omitempty"`
	IgnoredRoles   []uint64          `json:"ignored_roles,omitempty"`
	VerifyDelay    int               `json:"verify_delay"`
	ConfirmChannel discord.ChannelID `json:"confirm_channel,omitempty"`
	LogChannel     discord.ChannelID `json:"log_channel,omitempty"`
	WelcomeChannel discord.ChannelID `json:"welcome_channel,omitempty"`
	WelcomeMessage string            `json:"welcome_message"`
}

func (s *Server) guildConfig(w http.ResponseWriter, r *http.Request) {
	sf, err := discord.ParseSnowflake(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not a server", http.StatusNotFound)
		return
	}

	cfg, err := s.DB.Guild(discord.GuildID(sf))
	if err != nil {
		common.Log.Errorf("Error getting guild %v: %v", sf, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, guildConfigResponse{
		ID:             cfg.ID,
		VerifiedRole:   cfg.VerifiedRole,
		IgnoredRoles:   cfg.IgnoredRoles,
		VerifyDelay:    cfg.VerifyDelay,
		ConfirmChannel: cfg.ConfirmChannel,
		LogChannel:     cfg.LogChannel,
		WelcomeChannel: cfg.WelcomeChannel,
		WelcomeMessage: cfg.WelcomeMessage,
	})
}
