package searcher

import (
	"os"
	"testing"

	"tictactoe/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func mustParse(t *testing.T, s string) game.Board {
	t.Helper()
	b, err := game.ParseBoard(s)
	require.NoError(t, err)
	return b
}

// reachable returns every board reachable from the empty board with the side to
// move on it.
func reachable() map[game.Board]game.Player {
	seen := map[game.Board]game.Player{}
	var walk func(b game.Board, p game.Player)
	walk = func(b game.Board, p game.Player) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = p
		if b.Outcome().IsTerminal() {
			return
		}
		for _, a := range b.LegalActions() {
			child, _ := b.Apply(p, a)
			walk(child, p.Other())
		}
	}
	walk(game.Board{}, game.X)
	return seen
}
