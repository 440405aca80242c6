package bot

import (
	"fmt"
	"strings"

	"f7bot/internal/fortniteapi"

	"github.com/bwmarrin/discordgo"
)

// Use "teal" color for the bot
const color int = 0x008080

// Discord rejects messages longer than this
const MAX_MESSAGE_LENGTH = 2000

const SHOP_HEADER = "Current Fortnite shop:"

var usages = map[int]string{
	COMMAND_TIMEOUT:        "timeout <member> <seconds>",
	COMMAND_KICK:           "kick <member>",
	COMMAND_BAN:            "ban <member>",
	COMMAND_FORTNITE_STATS: "fortnitestats <username>",
	COMMAND_FORTNITE_SHOP:  "fortniteshop",
	COMMAND_HELP:           "help",
}

func InputNotValid(errorMessage string) Response {
	return ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}
}

func PermissionDenied(command string) Response {
	return ResponseString{fmt.Sprintf("You do not have permission to use `%s`", command)}
}

func MemberNotFound(name string) Response {
	return ResponseString{fmt.Sprintf("Member `%s` not found", name)}
}

func MemberTimedOut(name string, seconds int) Response {
	return ResponseString{fmt.Sprintf("%s was timed out for %d seconds!", name, seconds)}
}

func MemberKicked(name string) Response {
	return ResponseString{fmt.Sprintf("%s was kicked from the server!", name)}
}

func MemberBanned(name string) Response {
	return ResponseString{fmt.Sprintf("%s was banned from the server!", name)}
}

func ModerationFailed(action string, name string) Response {
	return ResponseString{fmt.Sprintf("Could not %s %s", action, name)}
}

func ModerationLog(moderator string, action string, name string) string {
	return fmt.Sprintf("%s used `%s` on %s", moderator, action, name)
}

func PlayerStats(profile fortniteapi.Profile) Response {
	return ResponseString{fmt.Sprintf("%s - K/D: %s, Wins: %s, Kills: %s", profile.Username, profile.Kda, profile.Wins, profile.Kills)}
}

func StatsNotAvailable(username string) Response {
	return ResponseString{fmt.Sprintf("Could not fetch the stats for %s!", username)}
}

func Shop(items []fortniteapi.ShopItem) Response {

	lines := []string{SHOP_HEADER}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %s V-Bucks", item.Name, item.Price))
	}
	return ResponseString{truncate(strings.Join(lines, "\n"))}
}

func ShopNotAvailable() Response {
	return ResponseString{"Could not fetch the Fortnite shop!"}
}

func HelpMessage(prefix string) Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	for _, command := range commandTable {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s%s`", prefix, usages[command.id]),
			Value:  command.description,
			Inline: false,
		})
	}
	return ResponseEmbed{embed}
}

// Cut long replies on a line boundary so they still fit in one message
func truncate(content string) string {
	if len(content) <= MAX_MESSAGE_LENGTH {
		return content
	}
	const ellipsis = "\n..."
	cut := content[:MAX_MESSAGE_LENGTH-len(ellipsis)]
	if index := strings.LastIndex(cut, "\n"); index > 0 {
		cut = cut[:index]
	}
	return cut + ellipsis
}
