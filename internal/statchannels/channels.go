// Package statchannels keeps three read-only text channels of a guild named after
// live member counts: members online, clan members and bots.
package statchannels

import (
	"fmt"
	"strings"
	"unicode"
)

type Kind int

const (
	ONLINE Kind = iota
	CLAN
	BOTS
)

func (k Kind) String() string {
	switch k {
	case ONLINE:
		return "online"
	case CLAN:
		return "clan"
	case BOTS:
		return "bots"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// A managed channel is found by its fixed name when provisioning,
// and renamed after its template on every refresh
type ManagedChannel struct {
	Kind     Kind
	Name     string
	Template string
}

var ManagedChannels = []ManagedChannel{
	{Kind: ONLINE, Name: "online-users", Template: "Online Users: %d"},
	{Kind: CLAN, Name: "f7-clan-members", Template: "F7 Clan Members: %d"},
	{Kind: BOTS, Name: "bots-members", Template: "Bots: %d"},
}

func (mc ManagedChannel) Title(count int) string {
	return fmt.Sprintf(mc.Template, count)
}

// Whether an existing channel is this managed channel, either still under its
// fixed name or already renamed by a refresh. Discord stores text channel names
// lowercased with punctuation collapsed, so "Bots: 2" comes back as "bots-2"
func (mc ManagedChannel) Matches(name string) bool {
	if name == mc.Name {
		return true
	}
	prefix := slug(strings.Replace(mc.Template, "%d", "", 1))
	rest, ok := strings.CutPrefix(slug(name), prefix+"-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
