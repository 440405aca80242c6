package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"f7bot/internal/discord"
	"f7bot/internal/fortniteapi"
	"f7bot/internal/telemetry"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrMemberNotFound = errors.New("member not found")

const UNKNOWN_COMMAND = "unknown"

// Gateway is the part of the chat platform the command handlers act on
type Gateway interface {
	Messenger
	Members(guildID string) ([]discord.Member, error)
	Permissions(userID, channelID string) (int64, error)
	TimeoutMember(guildID, userID string, d time.Duration) error
	KickMember(guildID, userID string) error
	BanMember(guildID, userID string) error
}

type StatsApi interface {
	GetProfile(ctx context.Context, username string) (fortniteapi.Profile, error)
	GetShop(ctx context.Context) ([]fortniteapi.ShopItem, error)
}

// Everything a handler knows about one command message
type Invocation struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	Author    string
	Command   string
	Arguments interface{}
	Logger    zerolog.Logger
}

type handler func(d *Dispatcher, ctx context.Context, inv Invocation) Response

type command struct {
	id          int
	permission  int64
	description string
	handle      handler
}

var commandTable []command

// Permission 0 means anybody can run the command.
// Filled in init because help refers back to the table
func init() {
	commandTable = []command{
		{COMMAND_TIMEOUT, discordgo.PermissionManageMessages, "Time out a member for a number of seconds", (*Dispatcher).timeout},
		{COMMAND_KICK, discordgo.PermissionKickMembers, "Kick a member from the server", (*Dispatcher).kick},
		{COMMAND_BAN, discordgo.PermissionBanMembers, "Ban a member from the server", (*Dispatcher).ban},
		{COMMAND_FORTNITE_STATS, 0, "Show the K/D, wins and kills of a Fortnite player", (*Dispatcher).fortniteStats},
		{COMMAND_FORTNITE_SHOP, 0, "Show the items currently in the Fortnite shop", (*Dispatcher).fortniteShop},
		{COMMAND_HELP, 0, "Print the usage of the different commands", (*Dispatcher).help},
	}
}

func lookup(id int) (command, bool) {
	for _, command := range commandTable {
		if command.id == id {
			return command, true
		}
	}
	return command{}, false
}

type Dispatcher struct {
	gateway      Gateway
	stats        StatsApi
	prefix       string
	modChannelID string
}

func NewDispatcher(gateway Gateway, stats StatsApi, prefix string, modChannelID string) *Dispatcher {
	return &Dispatcher{gateway: gateway, stats: stats, prefix: prefix, modChannelID: modChannelID}
}

// Parse a message and, if it is a command the author is allowed to run,
// execute it. Every command message gets exactly one reply
func (d *Dispatcher) Dispatch(ctx context.Context, guildID, channelID string, author *discordgo.User, content string) {

	parseResult := Parse(d.prefix, content)

	// A bare prefix, as in "!!!" or "! lol", is chat and not a command
	if parseResult.parseid == PARSEID_NO_BOT_PREFIX || parseResult.parseid == PARSEID_NO_COMMAND {
		return
	}

	logger := log.With().Str("invocation", uuid.NewString()).Str("author", author.Username).Logger()
	var response Response
	outcome := "ok"

	switch parseResult.parseid {
	case PARSEID_OK:
		command, _ := lookup(parseResult.command)
		inv := Invocation{
			GuildID:   guildID,
			ChannelID: channelID,
			AuthorID:  author.ID,
			Author:    author.Username,
			Command:   parseResult.name,
			Arguments: parseResult.arguments,
			Logger:    logger,
		}
		if !d.allowed(inv, command.permission) {
			logger.Info().Msgf("Permission denied for command %s", parseResult.name)
			response = PermissionDenied(parseResult.name)
			outcome = "denied"
			break
		}
		logger.Info().Msgf("Executing command %s", parseResult.name)
		response = command.handle(d, ctx, inv)
	default:
		// The command is invalid input, so it contains an error message
		logger.Info().Msgf("Wrong input: '%s'. Reason: %s", content, parseResult.errorMessage)
		response = InputNotValid(parseResult.errorMessage)
		outcome = "invalid"
	}

	telemetry.CommandHandled(metricLabel(parseResult), outcome)
	if err := response.Send(channelID, d.gateway); err != nil {
		logger.Error().Err(err).Msg("Could not send reply")
	}
}

// Only names from the command table become label values,
// whatever users type after the prefix is folded into one series
func metricLabel(parseResult ParseResult) string {
	if _, ok := commandNames[parseResult.name]; ok {
		return parseResult.name
	}
	return UNKNOWN_COMMAND
}

func (d *Dispatcher) allowed(inv Invocation, permission int64) bool {
	if permission == 0 {
		return true
	}
	permissions, err := d.gateway.Permissions(inv.AuthorID, inv.ChannelID)
	if err != nil {
		inv.Logger.Warn().Err(err).Msg("Could not compute permissions")
		return false
	}
	return permissions&permission == permission
}

var mention = regexp.MustCompile(`^<@!?(\d+)>$`)

// Find a member by mention, id, username, global name or nickname, in that order
func (d *Dispatcher) resolveMember(guildID string, name string) (discord.Member, error) {

	members, err := d.gateway.Members(guildID)
	if err != nil {
		return discord.Member{}, err
	}

	id := name
	if match := mention.FindStringSubmatch(name); match != nil {
		id = match[1]
	}
	matchers := []func(discord.Member) bool{
		func(m discord.Member) bool { return m.ID == id },
		func(m discord.Member) bool { return m.Username == name },
		func(m discord.Member) bool { return m.GlobalName != "" && m.GlobalName == name },
		func(m discord.Member) bool { return m.Nick != "" && m.Nick == name },
	}
	for _, matches := range matchers {
		for _, member := range members {
			if matches(member) {
				return member, nil
			}
		}
	}
	return discord.Member{}, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
}

// Run a moderation action against the member named in the invocation
func (d *Dispatcher) moderate(inv Invocation, name string, action string, do func(member discord.Member) error, done func(member discord.Member) Response) Response {

	member, err := d.resolveMember(inv.GuildID, name)
	if err != nil {
		inv.Logger.Info().Err(err).Msgf("Could not resolve member for %s", action)
		return MemberNotFound(name)
	}

	if err := do(member); err != nil {
		inv.Logger.Error().Err(err).Msgf("Could not %s %s", action, member.DisplayName())
		return ModerationFailed(action, member.DisplayName())
	}
	inv.Logger.Info().Msgf("%s used %s on %s", inv.Author, action, member.DisplayName())

	if d.modChannelID != "" {
		if err := d.gateway.SendMessage(d.modChannelID, ModerationLog(inv.Author, action, member.DisplayName())); err != nil {
			inv.Logger.Warn().Err(err).Msg("Could not write to the moderation log")
		}
	}
	return done(member)
}

func (d *Dispatcher) timeout(ctx context.Context, inv Invocation) Response {
	args := inv.Arguments.(TimeoutArguments)
	return d.moderate(inv, args.Member, "timeout",
		func(member discord.Member) error {
			return d.gateway.TimeoutMember(inv.GuildID, member.ID, args.Duration)
		},
		func(member discord.Member) Response {
			return MemberTimedOut(member.DisplayName(), int(args.Duration/time.Second))
		})
}

func (d *Dispatcher) kick(ctx context.Context, inv Invocation) Response {
	return d.moderate(inv, inv.Arguments.(string), "kick",
		func(member discord.Member) error { return d.gateway.KickMember(inv.GuildID, member.ID) },
		func(member discord.Member) Response { return MemberKicked(member.DisplayName()) })
}

func (d *Dispatcher) ban(ctx context.Context, inv Invocation) Response {
	return d.moderate(inv, inv.Arguments.(string), "ban",
		func(member discord.Member) error { return d.gateway.BanMember(inv.GuildID, member.ID) },
		func(member discord.Member) Response { return MemberBanned(member.DisplayName()) })
}

func (d *Dispatcher) fortniteStats(ctx context.Context, inv Invocation) Response {
	username := inv.Arguments.(string)
	profile, err := d.stats.GetProfile(ctx, username)
	if err != nil {
		inv.Logger.Warn().Err(err).Msgf("No stats for %s", username)
		return StatsNotAvailable(username)
	}
	return PlayerStats(profile)
}

func (d *Dispatcher) fortniteShop(ctx context.Context, inv Invocation) Response {
	items, err := d.stats.GetShop(ctx)
	if err != nil {
		inv.Logger.Warn().Err(err).Msg("No shop available")
		return ShopNotAvailable()
	}
	return Shop(items)
}

func (d *Dispatcher) help(ctx context.Context, inv Invocation) Response {
	return HelpMessage(d.prefix)
}
