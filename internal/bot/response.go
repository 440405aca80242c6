package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger delivers replies to a channel
type Messenger interface {
	SendMessage(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

type Response interface {
	Send(channelid string, messenger Messenger) error
	Text() string
}

func (response ResponseString) Send(channelid string, messenger Messenger) error {
	return messenger.SendMessage(channelid, response.string)
}

func (response ResponseString) Text() string {
	return response.string
}

func (response ResponseEmbed) Send(channelid string, messenger Messenger) error {
	return messenger.SendEmbed(channelid, &response.MessageEmbed)
}

func (response ResponseEmbed) Text() string {
	return response.Title
}
