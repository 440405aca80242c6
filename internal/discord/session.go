// Package discord adapts a discordgo session to the small set of gateway calls the
// bot needs, so that the rest of the code can be exercised against fakes.
package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// ErrGuildNotFound is returned when the bot cannot see the requested guild.
var ErrGuildNotFound = errors.New("guild not found")

const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildPresences |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

type Session struct {
	*discordgo.Session
}

func NewSession(token string) (*Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("could not create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	s.State.TrackMembers = true
	s.State.TrackPresences = true
	s.State.TrackRoles = true
	return &Session{s}, nil
}

// Ask the gateway for every member of the guild, with presences.
// They arrive as GuildMembersChunk events and land in the state cache
func (s *Session) RequestMembers(guildID string) error {
	return s.RequestGuildMembers(guildID, "", 0, "", true)
}

// Resolve a guild from the state cache, falling back to the REST API
func (s *Session) ResolveGuild(guildID string) (*discordgo.Guild, error) {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild, nil
	}
	guild, err := s.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGuildNotFound, guildID, err)
	}
	return guild, nil
}

func (s *Session) TextChannels(guildID string) ([]*discordgo.Channel, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("could not list channels of guild %s: %w", guildID, err)
	}
	text := make([]*discordgo.Channel, 0, len(channels))
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText {
			text = append(text, channel)
		}
	}
	return text, nil
}

func (s *Session) CreateTextChannel(guildID, name string) (*discordgo.Channel, error) {
	channel, err := s.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildText)
	if err != nil {
		return nil, fmt.Errorf("could not create channel %s: %w", name, err)
	}
	return channel, nil
}

// Deny sending messages to the given role on a channel. Overwrites
// for other roles and members are kept as they are
func (s *Session) DenySend(channelID, roleID string) error {
	channel, err := s.State.Channel(channelID)
	if err != nil {
		if channel, err = s.Channel(channelID); err != nil {
			return fmt.Errorf("could not fetch channel %s: %w", channelID, err)
		}
	}
	overwrites := denySend(channel.PermissionOverwrites, roleID)
	if _, err := s.ChannelEdit(channelID, &discordgo.ChannelEdit{PermissionOverwrites: overwrites}); err != nil {
		return fmt.Errorf("could not edit overwrites of channel %s: %w", channelID, err)
	}
	return nil
}

func denySend(existing []*discordgo.PermissionOverwrite, roleID string) []*discordgo.PermissionOverwrite {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(existing)+1)
	found := false
	for _, overwrite := range existing {
		copied := *overwrite
		if copied.ID == roleID && copied.Type == discordgo.PermissionOverwriteTypeRole {
			copied.Allow &^= discordgo.PermissionSendMessages
			copied.Deny |= discordgo.PermissionSendMessages
			found = true
		}
		overwrites = append(overwrites, &copied)
	}
	if !found {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:   roleID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionSendMessages,
		})
	}
	return overwrites
}

func (s *Session) RenameChannel(channelID, name string) error {
	if _, err := s.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: name}); err != nil {
		return fmt.Errorf("could not rename channel %s: %w", channelID, err)
	}
	return nil
}

// Snapshot the members of a guild as currently known to the gateway state
func (s *Session) Members(guildID string) ([]Member, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGuildNotFound, guildID)
	}

	s.State.RLock()
	defer s.State.RUnlock()
	return snapshot(guild), nil
}

func snapshot(guild *discordgo.Guild) []Member {
	roleNames := make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		roleNames[role.ID] = role.Name
	}
	statuses := make(map[string]discordgo.Status, len(guild.Presences))
	for _, presence := range guild.Presences {
		if presence.User != nil {
			statuses[presence.User.ID] = presence.Status
		}
	}

	members := make([]Member, 0, len(guild.Members))
	for _, m := range guild.Members {
		if m.User == nil {
			continue
		}
		member := Member{
			ID:         m.User.ID,
			Username:   m.User.Username,
			GlobalName: m.User.GlobalName,
			Nick:       m.Nick,
			Status:     discordgo.StatusOffline,
		}
		if status, ok := statuses[m.User.ID]; ok {
			member.Status = status
		}
		for _, roleID := range m.Roles {
			if name, ok := roleNames[roleID]; ok {
				member.Roles = append(member.Roles, name)
			}
		}
		members = append(members, member)
	}
	return members
}

func (s *Session) Permissions(userID, channelID string) (int64, error) {
	return s.UserChannelPermissions(userID, channelID)
}

func (s *Session) TimeoutMember(guildID, userID string, d time.Duration) error {
	until := time.Now().Add(d)
	return s.GuildMemberTimeout(guildID, userID, &until)
}

func (s *Session) KickMember(guildID, userID string) error {
	return s.GuildMemberDelete(guildID, userID)
}

// Bans delete the last day of messages of the member
func (s *Session) BanMember(guildID, userID string) error {
	return s.GuildBanCreate(guildID, userID, 1)
}

func (s *Session) SendMessage(channelID, content string) error {
	_, err := s.ChannelMessageSend(channelID, content)
	return err
}

func (s *Session) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// Log the identity of the bot once the connection is ready
func LogReady(r *discordgo.Ready) {
	log.Info().Msgf("%s#%s is online in %d guilds", r.User.Username, r.User.Discriminator, len(r.Guilds))
}
