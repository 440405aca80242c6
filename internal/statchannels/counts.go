package statchannels

import (
	"f7bot/internal/discord"
)

const CLAN_ROLE = "F7 Clan member"
const BOT_ROLE = "BOT"

// Categories overlap: a member is counted in every category it matches
type Counts struct {
	Online int
	Clan   int
	Bots   int
}

func Count(members []discord.Member) Counts {
	var counts Counts
	for _, member := range members {
		if member.Online() {
			counts.Online++
		}
		if member.HasRole(CLAN_ROLE) {
			counts.Clan++
		}
		if member.HasRole(BOT_ROLE) {
			counts.Bots++
		}
	}
	return counts
}

func (c Counts) Of(kind Kind) int {
	switch kind {
	case ONLINE:
		return c.Online
	case CLAN:
		return c.Clan
	case BOTS:
		return c.Bots
	}
	return 0
}

func (c Counts) ByCategory() map[string]int {
	return map[string]int{
		ONLINE.String(): c.Online,
		CLAN.String():   c.Clan,
		BOTS.String():   c.Bots,
	}
}
