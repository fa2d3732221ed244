package api

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"hndigest/app/config"
)

func NewHandler(channels map[string]*config.Channel, runner Runner, version string) *Handler {
	return &Handler{
		channels: channels,
		runner:   runner,
		version:  version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"channels":  len(h.channels),
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) ListChannels(c *gin.Context) {
	type channelInfo struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Language string `json:"language"`
		Days     int    `json:"days"`
		Limit    int    `json:"limit"`
	}

	channels := make([]channelInfo, 0, len(h.channels))
	for _, ch := range h.channels {
		channels = append(channels, channelInfo{
			ID:       ch.ID,
			Title:    ch.Title,
			Language: ch.Language,
			Days:     ch.Days,
			Limit:    ch.Limit,
		})
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// GetDigest runs the full pipeline for a channel and returns the rendered
// sections without posting anything.
func (h *Handler) GetDigest(c *gin.Context) {
	id := c.Param("id")
	channel, ok := h.channels[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}

	d, err := h.runner.Run(c.Request.Context(), channel)
	if err != nil {
		slog.Error("Digest generation failed", "channel", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "digest generation failed"})
		return
	}

	type section struct {
		Category string `json:"category,omitempty"`
		Label    string `json:"label,omitempty"`
		Text     string `json:"text"`
	}

	sections := make([]section, 0, len(d.Messages))
	for _, msg := range d.Messages {
		sections = append(sections, section{Category: msg.Category, Label: msg.Label, Text: msg.Text})
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":  d.Channel,
		"issue":    d.Issue,
		"sections": sections,
	})
}
