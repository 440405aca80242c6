package statchannels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"f7bot/internal/common"
	"f7bot/internal/discord"
	"f7bot/internal/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const REFRESH_INTERVAL = 5 * time.Minute

type RefreshGateway interface {
	Members(guildID string) ([]discord.Member, error)
	RenameChannel(channelID, name string) error
}

// The refresher owns the channel bindings it was created with and never
// looks the channels up again: a channel deleted after binding makes
// its rename fail on every cycle until the process restarts
type Refresher struct {
	gateway  RefreshGateway
	guildID  string
	bindings []Binding
	task     *common.RepeatingTask
}

func NewRefresher(gateway RefreshGateway, guildID string, bindings []Binding, interval time.Duration) *Refresher {
	r := &Refresher{
		gateway:  gateway,
		guildID:  guildID,
		bindings: append([]Binding(nil), bindings...),
	}
	r.task = common.NewRepeatingTask("statistics refresh", interval, r.run)
	return r
}

// Arm the refresher: one cycle now and one every interval.
// Returns false if it was already armed
func (r *Refresher) Start(ctx context.Context) bool {
	return r.task.Start(ctx)
}

func (r *Refresher) Stop() {
	r.task.Stop()
}

func (r *Refresher) Armed() bool {
	return r.task.Armed()
}

func (r *Refresher) run(ctx context.Context) {
	if err := r.Cycle(ctx); err != nil {
		log.Error().Err(err).Msg("Statistics refresh cycle failed")
	}
}

// Run one refresh cycle against the live member list.
// A failed rename does not prevent the others
func (r *Refresher) Cycle(ctx context.Context) error {
	logger := log.With().Str("cycle", uuid.NewString()).Logger()
	start := time.Now()

	members, err := r.gateway.Members(r.guildID)
	if err != nil {
		return fmt.Errorf("could not get members of guild %s: %w", r.guildID, err)
	}
	counts := Count(members)
	logger.Debug().Msgf("Counted %d online, %d clan members and %d bots among %d members", counts.Online, counts.Clan, counts.Bots, len(members))

	var errs []error
	for _, binding := range r.bindings {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		title := binding.Title(counts.Of(binding.Kind))
		if err := r.gateway.RenameChannel(binding.ChannelID, title); err != nil {
			logger.Warn().Err(err).Msgf("Could not rename %s channel", binding.Kind)
			telemetry.RenameFailed(binding.Kind.String())
			errs = append(errs, err)
			continue
		}
		logger.Debug().Msgf("Renamed channel %s to %s", binding.ChannelID, title)
	}

	telemetry.ObserveCycle(counts.ByCategory(), time.Since(start))
	return errors.Join(errs...)
}
