package statchannels

import (
	"fmt"
	"sync"

	"f7bot/internal/discord"

	"github.com/bwmarrin/discordgo"
)

// fakeGateway keeps one guild in memory
type fakeGateway struct {
	mutex       sync.Mutex
	guildID     string
	channels    []*discordgo.Channel
	members     []discord.Member
	denied      map[string]string
	failRename  map[string]error
	renames     int
	membersErr  error
	nextChannel int
}

func newFakeGateway(guildID string) *fakeGateway {
	return &fakeGateway{
		guildID:    guildID,
		denied:     map[string]string{},
		failRename: map[string]error{},
	}
}

func (g *fakeGateway) ResolveGuild(guildID string) (*discordgo.Guild, error) {
	if guildID != g.guildID {
		return nil, fmt.Errorf("%w: %s", discord.ErrGuildNotFound, guildID)
	}
	return &discordgo.Guild{ID: guildID}, nil
}

func (g *fakeGateway) TextChannels(guildID string) ([]*discordgo.Channel, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return append([]*discordgo.Channel(nil), g.channels...), nil
}

func (g *fakeGateway) CreateTextChannel(guildID, name string) (*discordgo.Channel, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.nextChannel++
	channel := &discordgo.Channel{ID: fmt.Sprintf("c%d", g.nextChannel), GuildID: guildID, Name: name, Type: discordgo.ChannelTypeGuildText}
	g.channels = append(g.channels, channel)
	return channel, nil
}

func (g *fakeGateway) DenySend(channelID, roleID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.denied[channelID] = roleID
	return nil
}

func (g *fakeGateway) Members(guildID string) ([]discord.Member, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if g.membersErr != nil {
		return nil, g.membersErr
	}
	return append([]discord.Member(nil), g.members...), nil
}

func (g *fakeGateway) RenameChannel(channelID, name string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.renames++
	if err, ok := g.failRename[channelID]; ok {
		return err
	}
	for _, channel := range g.channels {
		if channel.ID == channelID {
			channel.Name = name
			return nil
		}
	}
	return fmt.Errorf("unknown channel %s", channelID)
}

func (g *fakeGateway) channelName(channelID string) string {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	for _, channel := range g.channels {
		if channel.ID == channelID {
			return channel.Name
		}
	}
	return ""
}

func (g *fakeGateway) renameCount() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.renames
}
