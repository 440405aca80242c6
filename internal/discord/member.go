package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Member is a point-in-time view of one guild member: presence and role names
type Member struct {
	ID         string
	Username   string
	GlobalName string
	Nick       string
	Status     discordgo.Status
	Roles      []string
}

// Members without a known presence are offline
func (m Member) Online() bool {
	return m.Status != "" && m.Status != discordgo.StatusOffline
}

// Role names are matched exactly, including case
func (m Member) HasRole(name string) bool {
	return slices.Contains(m.Roles, name)
}

// The name used in replies
func (m Member) DisplayName() string {
	if m.Username != "" {
		return m.Username
	}
	return m.ID
}
