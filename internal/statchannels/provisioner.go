package statchannels

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type ProvisionGateway interface {
	ResolveGuild(guildID string) (*discordgo.Guild, error)
	TextChannels(guildID string) ([]*discordgo.Channel, error)
	CreateTextChannel(guildID, name string) (*discordgo.Channel, error)
	DenySend(channelID, roleID string) error
}

// A managed channel bound to the identity of a real channel
type Binding struct {
	ManagedChannel
	ChannelID string
}

// Make sure every managed channel exists in the guild, creating the missing
// ones, and lock all of them so that @everyone cannot send messages.
// Running it again on a provisioned guild creates nothing
func Provision(gateway ProvisionGateway, guildID string) ([]Binding, error) {

	guild, err := gateway.ResolveGuild(guildID)
	if err != nil {
		return nil, err
	}

	channels, err := gateway.TextChannels(guild.ID)
	if err != nil {
		return nil, err
	}

	bindings := make([]Binding, 0, len(ManagedChannels))
	for _, managed := range ManagedChannels {
		channel := find(channels, managed)
		if channel == nil {
			log.Info().Msgf("Creating channel %s in guild %s", managed.Name, guild.ID)
			if channel, err = gateway.CreateTextChannel(guild.ID, managed.Name); err != nil {
				return nil, err
			}
			channels = append(channels, channel)
		} else {
			log.Debug().Msgf("Found channel %s for %s", channel.Name, managed.Name)
		}
		bindings = append(bindings, Binding{ManagedChannel: managed, ChannelID: channel.ID})
	}

	// The @everyone role shares its id with the guild
	for _, binding := range bindings {
		if err := gateway.DenySend(binding.ChannelID, guild.ID); err != nil {
			return nil, fmt.Errorf("could not lock channel %s: %w", binding.Name, err)
		}
	}

	log.Info().Msgf("Provisioned %d statistics channels in guild %s", len(bindings), guild.ID)
	return bindings, nil
}

// An exact name wins over a channel that only looks renamed
func find(channels []*discordgo.Channel, managed ManagedChannel) *discordgo.Channel {
	var renamed *discordgo.Channel
	for _, channel := range channels {
		if channel.Name == managed.Name {
			return channel
		}
		if renamed == nil && managed.Matches(channel.Name) {
			renamed = channel
		}
	}
	return renamed
}
