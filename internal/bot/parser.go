package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/buildkite/shellwords"
	"github.com/rs/zerolog/log"
)

const (
	COMMAND_TIMEOUT = iota
	COMMAND_KICK
	COMMAND_BAN
	COMMAND_FORTNITE_STATS
	COMMAND_FORTNITE_SHOP
	COMMAND_HELP
)

const (
	PARSEID_OK = iota
	PARSEID_NO_BOT_PREFIX
	PARSEID_NO_COMMAND
	PARSEID_COMMAND_NOT_RECOGNISED
	PARSEID_NO_INPUT
	PARSEID_NOT_A_DURATION
	PARSEID_MALFORMED
)

// The gateway does not accept timeouts longer than 28 days
const MAX_TIMEOUT = 28 * 24 * time.Hour

var commandNames = map[string]int{
	"timeout":       COMMAND_TIMEOUT,
	"kick":          COMMAND_KICK,
	"ban":           COMMAND_BAN,
	"fortnitestats": COMMAND_FORTNITE_STATS,
	"fortniteshop":  COMMAND_FORTNITE_SHOP,
	"help":          COMMAND_HELP,
}

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Usage: `%s`",
	PARSEID_NOT_A_DURATION:         "`%s` is not a number of seconds between 1 and 2419200",
	PARSEID_MALFORMED:              "Could not read the arguments: %s",
}

type TimeoutArguments struct {
	Member   string
	Duration time.Duration
}

type ParseResult struct {
	command      int
	name         string
	parseid      int
	errorMessage string
	arguments    interface{}
}

func Parse(prefix string, message string) ParseResult {

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// The command name follows the prefix directly, so "!!!" and "! lol" are chat
	rest := message[len(prefix):]
	if first, _ := utf8.DecodeRuneInString(rest); !unicode.IsLetter(first) {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}

	// Split honouring quotes, so that members with spaces in
	// their names can be written as "some name"
	words, err := shellwords.SplitPosix(strings.TrimSpace(rest))
	if err != nil {
		parseid := PARSEID_MALFORMED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], err)}
	}
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]

	// Match the command
	command, ok := commandNames[commandString]
	if !ok {
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{name: commandString, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
	result := ParseResult{command: command, name: commandString, parseid: PARSEID_OK}

	noInput := func() ParseResult {
		result.parseid = PARSEID_NO_INPUT
		result.errorMessage = fmt.Sprintf(errorMessages[PARSEID_NO_INPUT], prefix+usages[command])
		return result
	}

	switch command {
	case COMMAND_TIMEOUT:
		// timeout <member> <seconds>
		if len(words) < 2 {
			return noInput()
		}
		seconds, err := strconv.Atoi(words[1])
		if err != nil || seconds <= 0 || seconds > int(MAX_TIMEOUT/time.Second) {
			result.parseid = PARSEID_NOT_A_DURATION
			result.errorMessage = fmt.Sprintf(errorMessages[PARSEID_NOT_A_DURATION], words[1])
			return result
		}
		result.arguments = TimeoutArguments{Member: words[0], Duration: time.Duration(seconds) * time.Second}
	case COMMAND_KICK, COMMAND_BAN, COMMAND_FORTNITE_STATS:
		// kick <member>, ban <member>, fortnitestats <username>
		if len(words) == 0 {
			return noInput()
		}
		result.arguments = words[0]
	}

	log.Debug().Msgf("Parsed command %s with arguments %v", commandString, result.arguments)
	return result
}
