// Package arbiter plays engines against each other and records the game.
package arbiter

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"heron/engine"
)

// GameResult is the outcome of a finished game.
type GameResult int8

const (
	WhiteWins GameResult = iota
	BlackWins
	Draw
)

func (r GameResult) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// Tag is one PGN header pair.
type Tag struct {
	Key   string
	Value string
}

// Pgn is a recorded game in Portable Game Notation.
type Pgn struct {
	Fen    string
	Moves  []string // SAN
	Result GameResult
	Tags   []Tag
}

func NewPgn(fen string, moves []string, result GameResult) *Pgn {
	return &Pgn{Fen: fen, Moves: moves, Result: result}
}

func (p *Pgn) AddTag(key, value string) {
	p.Tags = append(p.Tags, Tag{Key: key, Value: value})
}

func (p *Pgn) String() string {
	var b strings.Builder

	for _, tag := range p.Tags {
		fmt.Fprintf(&b, "[%s \"%s\"]\n", tag.Key, tag.Value)
	}
	if p.Fen != dragontoothmg.Startpos {
		fmt.Fprintf(&b, "[FEN \"%s\"]\n", p.Fen)
		b.WriteString("[SetUp \"1\"]\n")
	}
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", p.Result)

	var moveText strings.Builder
	for i, mv := range p.Moves {
		if i%2 == 0 {
			fmt.Fprintf(&moveText, "%d. %s ", i/2+1, mv)
		} else {
			fmt.Fprintf(&moveText, "%s ", mv)
		}
	}
	moveText.WriteString(p.Result.String())

	// Wrap the movetext at 80 columns.
	var line string
	for _, word := range strings.Fields(moveText.String()) {
		if len(line)+len(word)+1 > 80 {
			b.WriteString(line)
			b.WriteByte('\n')
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// PlayMatch plays white against black from the given FEN until checkmate,
// stalemate, threefold repetition or the move limit (plies; 200 when
// nonpositive). A nil engine move counts as resignation.
func PlayMatch(white, black engine.SearchEngine, fen string, maxMoves int) (GameResult, *engine.GameState, *Pgn, error) {
	state, err := engine.NewGameState(fen)
	if err != nil {
		return Draw, nil, nil, err
	}

	white.ClearSearchState()
	black.ClearSearchState()

	if maxMoves <= 0 {
		maxMoves = 200
	}

	var moves []string
	finish := func(result GameResult) (GameResult, *engine.GameState, *Pgn, error) {
		return result, state, NewPgn(fen, moves, result), nil
	}

	for moveCount := 0; ; moveCount++ {
		board := state.Board()

		switch state.Status() {
		case engine.Checkmate:
			if board.Wtomove {
				return finish(BlackWins)
			}
			return finish(WhiteWins)
		case engine.Stalemate:
			return finish(Draw)
		}

		if moveCount >= maxMoves {
			return finish(Draw)
		}

		mover := black
		if board.Wtomove {
			mover = white
		}
		mv, ok, err := mover.NextMove(state, engine.TimeInfo{})
		if err != nil {
			return Draw, state, nil, err
		}
		if !ok {
			// Resignation.
			if board.Wtomove {
				return finish(BlackWins)
			}
			return finish(WhiteWins)
		}

		moves = append(moves, MoveToSan(state, mv))
		if state.MakeMove(mv) >= 3 {
			return finish(Draw)
		}
	}
}

var pieceLetters = [7]byte{
	dragontoothmg.Knight: 'N',
	dragontoothmg.Bishop: 'B',
	dragontoothmg.Rook:   'R',
	dragontoothmg.Queen:  'Q',
	dragontoothmg.King:   'K',
}

func squareName(sq uint8) string {
	return string([]byte{'a' + sq%8, '1' + sq/8})
}

// MoveToSan renders a legal move in Standard Algebraic Notation for the
// current position of state.
func MoveToSan(state *engine.GameState, mv dragontoothmg.Move) string {
	board := state.Board()

	us := &board.Black
	if board.Wtomove {
		us = &board.White
	}
	piece, _ := engine.GetPieceTypeAtPosition(mv.From(), us)
	isCapture := dragontoothmg.IsCapture(mv, board)

	var san strings.Builder
	switch piece {
	case dragontoothmg.King:
		if castle := castleSan(mv); castle != "" {
			san.WriteString(castle)
			break
		}
		san.WriteByte('K')
		if isCapture {
			san.WriteByte('x')
		}
		san.WriteString(squareName(mv.To()))

	case dragontoothmg.Pawn:
		if isCapture {
			san.WriteByte('a' + mv.From()%8)
			san.WriteByte('x')
		}
		san.WriteString(squareName(mv.To()))
		if promo := mv.Promote(); promo != 0 {
			san.WriteByte('=')
			san.WriteByte(pieceLetters[promo])
		}

	default:
		san.WriteByte(pieceLetters[piece])
		san.WriteString(disambiguation(board, mv, piece, us))
		if isCapture {
			san.WriteByte('x')
		}
		san.WriteString(squareName(mv.To()))
	}

	// Check and mate markers need the resulting position.
	state.MakeMove(mv)
	inCheck := board.OurKingInCheck()
	mated := inCheck && state.Status() == engine.Checkmate
	state.UndoLastMove()

	if mated {
		san.WriteByte('#')
	} else if inCheck {
		san.WriteByte('+')
	}
	return san.String()
}

func castleSan(mv dragontoothmg.Move) string {
	from, to := mv.From(), mv.To()
	if from == 4 && to == 6 || from == 60 && to == 62 {
		return "O-O"
	}
	if from == 4 && to == 2 || from == 60 && to == 58 {
		return "O-O-O"
	}
	return ""
}

// disambiguation adds the file, rank or both of the origin square when
// another piece of the same type could also reach the destination.
func disambiguation(board *dragontoothmg.Board, mv dragontoothmg.Move, piece dragontoothmg.Piece, us *dragontoothmg.Bitboards) string {
	var sameFile, sameRank, ambiguous bool
	for _, other := range board.GenerateLegalMoves() {
		if other.To() != mv.To() || other.From() == mv.From() {
			continue
		}
		otherPiece, _ := engine.GetPieceTypeAtPosition(other.From(), us)
		if otherPiece != piece {
			continue
		}
		ambiguous = true
		if other.From()%8 == mv.From()%8 {
			sameFile = true
		}
		if other.From()/8 == mv.From()/8 {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string([]byte{'a' + mv.From()%8})
	case !sameRank:
		return string([]byte{'1' + mv.From()/8})
	default:
		return squareName(mv.From())
	}
}
