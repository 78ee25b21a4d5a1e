// game_expander.go - turns whole games into state-action records.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/movenet/move"
)

var errColorOrder = errors.New("move colors do not alternate starting with black")

// GameExpander converts a complete game, one line of move tokens, into
// training records: for every move after the first minHistory moves, a
// record holding all earlier moves followed by that move as the label.
type GameExpander struct {
	codec      move.Codec
	minHistory int
	strict     bool

	tokens []string
}

func NewGameExpander(codec move.Codec, minHistory int, strict bool) *GameExpander {
	if minHistory < 1 {
		minHistory = 1
	}
	return &GameExpander{codec: codec, minHistory: minHistory, strict: strict}
}

// Expand returns the records for one game. Tokens are rewritten in
// canonical form (upper-case color, lower-case column). In strict mode a
// token whose color does not match its position in the game is an error,
// since the encoder assigns colors by position.
func (ge *GameExpander) Expand(game string) ([]string, error) {
	fields := strings.Fields(game)
	ge.tokens = ge.tokens[:0]
	mismatches := 0
	for ply, f := range fields {
		color, m, err := ge.codec.ParseToken(f)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", ply+1, err)
		}
		if color != move.ColorAt(ply) {
			if ge.strict {
				return nil, fmt.Errorf("move %d %q: %w", ply+1, f, errColorOrder)
			}
			mismatches++
		}
		ge.tokens = append(ge.tokens, ge.codec.Token(move.ColorAt(ply), m))
	}
	if mismatches > 0 {
		log.Debug().Int("mismatches", mismatches).Str("game", game).Msg("recolored-moves")
	}

	var records []string
	for label := ge.minHistory; label < len(ge.tokens); label++ {
		records = append(records, strings.Join(ge.tokens[:label+1], " "))
	}
	return records, nil
}
