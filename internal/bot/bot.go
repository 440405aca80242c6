package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"f7bot/internal/config"
	"f7bot/internal/discord"
	"f7bot/internal/fortniteapi"
	"f7bot/internal/statchannels"
	"f7bot/internal/telemetry"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// How long the ready handler waits for the target guild to be cached
// before arming the refresher anyway
const GUILD_WAIT = 30 * time.Second

// Bot owns the gateway session and, once armed, the statistics refresher
type Bot struct {
	config     *config.Config
	session    *discord.Session
	dispatcher *Dispatcher
	interval   time.Duration

	ctx        context.Context
	mutex      sync.Mutex
	refresher  *statchannels.Refresher
	guildReady chan struct{}
	guildOnce  sync.Once
	fatal      chan error
}

func NewBot(cfg *config.Config) (*Bot, error) {

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return nil, err
	}
	api := fortniteapi.NewFortniteApi(cfg.FortniteApiUrl, cfg.FortniteApiKey, fortniteapi.DefaultRestrictions, telemetry.StatsApiResponse)

	return &Bot{
		config:     cfg,
		session:    session,
		dispatcher: NewDispatcher(session, api, cfg.CommandPrefix, cfg.ModChannelID),
		interval:   statchannels.REFRESH_INTERVAL,
		guildReady: make(chan struct{}),
		fatal:      make(chan error, 1),
	}, nil
}

// Connect and serve until the context is cancelled or provisioning fails
func (bot *Bot) Run(ctx context.Context) error {
	bot.ctx = ctx

	bot.session.AddHandler(bot.ready)
	bot.session.AddHandler(bot.guildCreate)
	bot.session.AddHandler(bot.receive)

	if err := bot.session.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer bot.session.Close()

	var err error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err = <-bot.fatal:
		log.Error().Err(err).Msg("Could not provision the statistics channels")
	}

	bot.mutex.Lock()
	refresher := bot.refresher
	bot.mutex.Unlock()
	if refresher != nil {
		refresher.Stop()
	}
	return err
}

func (bot *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	discord.LogReady(r)

	bot.mutex.Lock()
	defer bot.mutex.Unlock()

	// A reconnect fires ready again, the refresher is already bound
	if bot.refresher != nil && bot.refresher.Armed() {
		log.Info().Msg("Statistics refresher already armed")
		return
	}

	bindings, err := statchannels.Provision(bot.session, bot.config.GuildID)
	if err != nil {
		select {
		case bot.fatal <- err:
		default:
		}
		return
	}

	select {
	case <-bot.guildReady:
	case <-time.After(GUILD_WAIT):
		log.Warn().Msgf("Guild %s not cached yet, first counts may be incomplete", bot.config.GuildID)
	case <-bot.ctx.Done():
		return
	}

	bot.refresher = statchannels.NewRefresher(bot.session, bot.config.GuildID, bindings, bot.interval)
	bot.refresher.Start(bot.ctx)
}

// The guild arrives after ready. Ask for its complete member list
// so that counts are not limited to what the gateway sends by default
func (bot *Bot) guildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.ID != bot.config.GuildID {
		return
	}
	if err := bot.session.RequestMembers(g.ID); err != nil {
		log.Warn().Err(err).Msgf("Could not request members of guild %s", g.ID)
	}
	bot.guildOnce.Do(func() { close(bot.guildReady) })
}

func (bot *Bot) receive(s *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject messages from bots, including my own
	if message.Author == nil || message.Author.Bot {
		return
	}

	// Only the configured guild is served, private messages are ignored
	if message.GuildID != bot.config.GuildID {
		return
	}

	bot.dispatcher.Dispatch(bot.ctx, message.GuildID, message.ChannelID, message.Author, message.Content)
}
