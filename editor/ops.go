package editor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"vectormag-cms/blocks"
)

var ErrUnknownOp = errors.New("unknown block operation")

type OpKind string

const (
	OpInsert OpKind = "insert"
	OpUpdate OpKind = "update"
	OpTune   OpKind = "tune"
	OpRemove OpKind = "remove"
	OpMove   OpKind = "move"
)

// Op is one mutation in a batch, as sent by the admin editor.
type Op struct {
	Op    OpKind          `json:"op" validate:"required,oneof=insert update tune remove move"`
	Index int             `json:"index"`
	From  int             `json:"from"`
	To    int             `json:"to"`
	Block *blocks.Block   `json:"block,omitempty"`
	Patch map[string]any  `json:"patch,omitempty"`
	Tune  string          `json:"tune,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// OpError reports which operation of a batch failed.
type OpError struct {
	Position int
	Op       OpKind
	Err      error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Position, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Apply runs ops in order. Either every operation succeeds or the session is
// left exactly as it was.
func (s *Session) Apply(ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	scratch := *s
	scratch.blocks = blocks.Document{Blocks: s.blocks}.Clone().Blocks

	for i, op := range ops {
		if err := scratch.apply(op); err != nil {
			return &OpError{Position: i, Op: op.Op, Err: err}
		}
	}
	*s = scratch
	return nil
}

func (s *Session) apply(op Op) error {
	switch op.Op {
	case OpInsert:
		if op.Block == nil {
			return fmt.Errorf("%w: insert needs a block", ErrUnknownOp)
		}
		_, err := s.InsertBlock(op.Index, *op.Block)
		return err
	case OpUpdate:
		return s.UpdateBlockData(op.Index, op.Patch)
	case OpTune:
		if op.Tune == "" {
			return fmt.Errorf("%w: tune needs a name", ErrUnknownOp)
		}
		if len(op.Value) == 0 || string(op.Value) == "null" {
			return s.SetTune(op.Index, op.Tune, nil)
		}
		return s.SetTune(op.Index, op.Tune, op.Value)
	case OpRemove:
		_, err := s.RemoveBlock(op.Index)
		return err
	case OpMove:
		return s.MoveBlock(op.From, op.To)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
}
