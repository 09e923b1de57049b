package hosting

import (
	"encoding/json"
	"log"

	enginetetris "tetrisengine/internal/engine/tetris"
	modeltetris "tetrisengine/internal/models/tetris"
)

// wireFeedback is the JSON shape of one TimedFeedback sent to clients. Only
// the fields relevant to Kind are populated, mirroring FeedbackMessage
// itself; Kind is rendered as a name rather than the bare ordinal so a
// frontend never has to hardcode the engine's iota values.
type wireFeedback struct {
	Time int64  `json:"time"`
	Kind string `json:"kind"`

	Piece *wirePiece `json:"piece,omitempty"`

	YCoords        []int `json:"y_coords,omitempty"`
	LineClearStart int64 `json:"line_clear_start,omitempty"`

	OldPiece *wirePiece `json:"old_piece,omitempty"`
	NewPiece *wirePiece `json:"new_piece,omitempty"`

	ScoreBonus     int64  `json:"score_bonus,omitempty"`
	Tetromino      string `json:"tetromino,omitempty"`
	IsSpin         bool   `json:"is_spin,omitempty"`
	LineClears     int    `json:"line_clears,omitempty"`
	IsPerfectClear bool   `json:"is_perfect_clear,omitempty"`
	Combo          int    `json:"combo,omitempty"`

	UpdatePointLabel string `json:"update_point_label,omitempty"`
	Text             string `json:"text,omitempty"`
}

type wirePiece struct {
	Tetromino   string `json:"tetromino"`
	Orientation int    `json:"orientation"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
}

func toWirePiece(p modeltetris.Piece) *wirePiece {
	return &wirePiece{Tetromino: p.Tetromino.String(), Orientation: int(p.Orientation), X: p.X, Y: p.Y}
}

var feedbackKindNames = map[enginetetris.FeedbackKind]string{
	enginetetris.FeedbackPieceLocked:   "piece_locked",
	enginetetris.FeedbackLinesClearing: "lines_clearing",
	enginetetris.FeedbackHardDrop:      "hard_drop",
	enginetetris.FeedbackAccolade:      "accolade",
	enginetetris.FeedbackDebug:         "debug",
	enginetetris.FeedbackText:          "text",
}

func toWireFeedback(tf enginetetris.TimedFeedback) wireFeedback {
	msg := tf.Message
	out := wireFeedback{Time: int64(tf.Time), Kind: feedbackKindNames[msg.Kind]}

	switch msg.Kind {
	case enginetetris.FeedbackPieceLocked:
		out.Piece = toWirePiece(msg.Piece)
	case enginetetris.FeedbackLinesClearing:
		out.YCoords = msg.YCoords
		out.LineClearStart = int64(msg.LineClearStart)
	case enginetetris.FeedbackHardDrop:
		out.OldPiece = toWirePiece(msg.OldPiece)
		out.NewPiece = toWirePiece(msg.NewPiece)
	case enginetetris.FeedbackAccolade:
		out.ScoreBonus = msg.ScoreBonus
		out.Tetromino = msg.Tetromino.String()
		out.IsSpin = msg.IsSpin
		out.LineClears = msg.LineClears
		out.IsPerfectClear = msg.IsPerfectClear
		out.Combo = msg.Combo
	case enginetetris.FeedbackDebug:
		out.UpdatePointLabel = msg.UpdatePointLabel
	case enginetetris.FeedbackText:
		out.Text = msg.Text
	}
	return out
}

// outboundBatch is the top-level message a client receives: one or more
// feedback events produced by a single Update call.
type outboundBatch struct {
	Type   string         `json:"type"`
	Events []wireFeedback `json:"events"`
}

func encodeFeedback(feedback []enginetetris.TimedFeedback) []byte {
	events := make([]wireFeedback, len(feedback))
	for i, tf := range feedback {
		events[i] = toWireFeedback(tf)
	}
	payload, err := json.Marshal(outboundBatch{Type: "feedback", Events: events})
	if err != nil {
		log.Printf("[Hosting] failed to encode feedback batch: %v", err)
		return []byte(`{"type":"feedback","events":[]}`)
	}
	return payload
}
