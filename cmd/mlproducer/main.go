package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/movenet/move"
)

const bufSize = 1 << 20 // 1 MiB buffered stdout
const flushEvery = 1000

type producerStats struct {
	games      int
	records    int
	duplicates int
}

// produce reads one game per line from r and writes one state-action record
// per line to w. Blank input lines are skipped; the output never contains
// one, since the reader treats a blank line as the end of the data.
func produce(r io.Reader, w io.Writer, ge *GameExpander, dedupe bool) (producerStats, error) {
	var st producerStats
	seen := make(map[uint64]struct{})
	out := bufio.NewWriterSize(w, bufSize)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), bufSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		records, err := ge.Expand(line)
		if err != nil {
			return st, err
		}
		st.games++
		for _, rec := range records {
			if dedupe {
				h := xxhash.Sum64String(rec)
				if _, ok := seen[h]; ok {
					st.duplicates++
					continue
				}
				seen[h] = struct{}{}
			}
			if _, err := out.WriteString(rec); err != nil {
				return st, err
			}
			if err := out.WriteByte('\n'); err != nil {
				return st, err
			}
			st.records++
			if st.records%flushEvery == 0 {
				if err := out.Flush(); err != nil {
					return st, err
				}
			}
		}
		if st.games%10000 == 0 {
			log.Info().Msgf("Expanded %d games into %d records", st.games, st.records)
		}
	}
	if err := scanner.Err(); err != nil {
		return st, err
	}
	return st, out.Flush()
}

func main() {
	boardSize := pflag.Int("board-size", move.DefaultBoardSize, "side of the square board")
	minHistory := pflag.Int("min-history", 1, "fewest moves before a label")
	strict := pflag.Bool("strict", false, "reject games whose colors do not alternate from black")
	dedupe := pflag.Bool("dedupe", false, "drop repeated records")
	debug := pflag.Bool("debug", false, "debug logging")
	pflag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	codec, err := move.NewCodec(*boardSize)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-board-size")
	}
	ge := NewGameExpander(codec, *minHistory, *strict)
	st, err := produce(os.Stdin, os.Stdout, ge, *dedupe)
	if err != nil {
		log.Fatal().Err(err).Int("game", st.games+1).Msg("producing-records")
	}
	log.Info().Int("games", st.games).Int("records", st.records).
		Int("duplicates", st.duplicates).Msg("finished")
}
