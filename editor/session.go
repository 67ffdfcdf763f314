// Package editor holds the in-memory authoring state of one article body
// during an editing session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vectormag-cms/blocks"
)

var (
	ErrOutOfRange     = errors.New("block index out of range")
	ErrUnsavedChanges = errors.New("session has unsaved changes")
)

// PersistenceAdapter stores and loads the serialized document of an article.
// A nil error from SaveContent is the only confirmation of a save.
type PersistenceAdapter interface {
	SaveContent(ctx context.Context, articleID uint, content []byte) error
	LoadContent(ctx context.Context, articleID uint) ([]byte, error)
}

// Revision identifies the state of a session at a point in time. It moves
// forward on every mutation.
type Revision uint64

// Session is the mutable block list of one document plus a dirty flag. A
// Session is owned by a single author and is not safe for concurrent use.
type Session struct {
	blocks  []blocks.Block
	time    int64
	version string

	dirty bool
	rev   Revision

	decoder blocks.Decoder
	newID   func() string
}

type Option func(*Session)

// WithDecoder sets the decoder used for loading and validation.
func WithDecoder(dec blocks.Decoder) Option {
	return func(s *Session) { s.decoder = dec }
}

// WithIDGenerator replaces the generator of ids for inserted blocks.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// NewBlockID returns a short random block id in the block editor's format.
func NewBlockID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// NewSession starts a clean session over a copy of doc.
func NewSession(doc blocks.Document, opts ...Option) *Session {
	s := &Session{
		time:    doc.Time,
		version: doc.Version,
		decoder: blocks.Decoder{MaxDepth: blocks.DefaultMaxDepth},
		newID:   NewBlockID,
	}
	if doc.Blocks != nil {
		s.blocks = doc.Clone().Blocks
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads an article's document through the adapter and starts a clean
// session over it. Block-level problems are returned alongside the session.
func Open(ctx context.Context, adapter PersistenceAdapter, articleID uint, opts ...Option) (*Session, blocks.ValidationErrors, error) {
	s := NewSession(blocks.Document{}, opts...)
	issues, err := s.load(ctx, adapter, articleID)
	if err != nil {
		return nil, nil, err
	}
	return s, issues, nil
}

// Reload replaces the session state with the stored document. It refuses to
// discard unsaved changes and leaves the session untouched on any failure.
func (s *Session) Reload(ctx context.Context, adapter PersistenceAdapter, articleID uint) (blocks.ValidationErrors, error) {
	if s.dirty {
		return nil, ErrUnsavedChanges
	}
	return s.load(ctx, adapter, articleID)
}

func (s *Session) load(ctx context.Context, adapter PersistenceAdapter, articleID uint) (blocks.ValidationErrors, error) {
	raw, err := adapter.LoadContent(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, issues, err := s.decoder.Deserialize(raw)
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}
	s.blocks = doc.Blocks
	s.time = doc.Time
	s.version = doc.Version
	s.dirty = false
	s.rev++
	return issues, nil
}

func (s *Session) touch() {
	s.dirty = true
	s.rev++
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.blocks) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, index, len(s.blocks))
	}
	return nil
}

// Len returns the number of top-level blocks.
func (s *Session) Len() int { return len(s.blocks) }

// Dirty reports whether there are changes not yet confirmed as saved.
func (s *Session) Dirty() bool { return s.dirty }

// Block returns a copy of the block at index.
func (s *Session) Block(index int) (blocks.Block, error) {
	if err := s.checkIndex(index); err != nil {
		return blocks.Block{}, err
	}
	return s.blocks[index].Clone(), nil
}

// InsertBlock validates b and inserts it at index, clamped to [0, Len()].
// Blocks without an id get one. It returns the position actually used.
func (s *Session) InsertBlock(index int, b blocks.Block) (int, error) {
	v, err := s.decoder.Validate(b)
	if err != nil {
		return 0, err
	}
	v = v.Clone()
	if v.ID == "" {
		v.ID = s.newID()
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.blocks) {
		index = len(s.blocks)
	}
	s.blocks = append(s.blocks, blocks.Block{})
	copy(s.blocks[index+1:], s.blocks[index:])
	s.blocks[index] = v
	s.touch()
	return index, nil
}

// UpdateBlockData merges patch into the data of the block at index. A nil
// value in patch removes that key.
func (s *Session) UpdateBlockData(index int, patch map[string]any) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	merged, err := s.decoder.MergeData(s.blocks[index], patch)
	if err != nil {
		return err
	}
	s.blocks[index] = merged
	s.touch()
	return nil
}

// SetTune sets the named tune of the block at index to the JSON encoding of
// value. A nil value removes the tune. Block data is not touched.
func (s *Session) SetTune(index int, name string, value any) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	b := s.blocks[index]
	if value == nil {
		b.Tunes = b.Tunes.Without(name)
	} else {
		tunes, err := b.Tunes.With(name, value)
		if err != nil {
			return fmt.Errorf("tune %q: %w", name, err)
		}
		if err := blocks.ValidateTunes(tunes); err != nil {
			return err
		}
		b.Tunes = tunes
	}
	s.blocks[index] = b
	s.touch()
	return nil
}

// RemoveBlock deletes and returns the block at index.
func (s *Session) RemoveBlock(index int) (blocks.Block, error) {
	if err := s.checkIndex(index); err != nil {
		return blocks.Block{}, err
	}
	removed := s.blocks[index]
	s.blocks = append(s.blocks[:index], s.blocks[index+1:]...)
	s.touch()
	return removed, nil
}

// MoveBlock moves the block at from so that it ends up at to. Both indices
// must be valid, otherwise nothing moves.
func (s *Session) MoveBlock(from, to int) error {
	if err := s.checkIndex(from); err != nil {
		return fmt.Errorf("move from: %w", err)
	}
	if err := s.checkIndex(to); err != nil {
		return fmt.Errorf("move to: %w", err)
	}
	if from == to {
		return nil
	}
	b := s.blocks[from]
	if from < to {
		copy(s.blocks[from:to], s.blocks[from+1:to+1])
	} else {
		copy(s.blocks[to+1:from+1], s.blocks[to:from])
	}
	s.blocks[to] = b
	s.touch()
	return nil
}

// ToSerializable returns a deep copy of the current document. It does not
// clear the dirty flag: call MarkSaved once the copy is stored.
func (s *Session) ToSerializable() blocks.Document {
	doc := blocks.Document{Time: s.time, Version: s.version}
	if len(s.blocks) > 0 {
		doc.Blocks = blocks.Document{Blocks: s.blocks}.Clone().Blocks
	}
	return doc
}

// Snapshot is ToSerializable paired with the revision it was taken at.
func (s *Session) Snapshot() (blocks.Document, Revision) {
	return s.ToSerializable(), s.rev
}

// MarkSaved confirms that the snapshot taken at rev was persisted. The dirty
// flag is cleared only when nothing changed since; it reports whether it was.
func (s *Session) MarkSaved(rev Revision) bool {
	if rev != s.rev {
		return false
	}
	s.dirty = false
	return true
}

// Save serializes the session and hands it to the adapter. The session is
// marked clean only when the adapter confirms; a failed or cancelled save
// leaves it exactly as it was.
func (s *Session) Save(ctx context.Context, adapter PersistenceAdapter, articleID uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, rev := s.Snapshot()
	data, err := blocks.Serialize(doc)
	if err != nil {
		return fmt.Errorf("serialize article %d: %w", articleID, err)
	}
	if err := adapter.SaveContent(ctx, articleID, data); err != nil {
		return fmt.Errorf("save article %d: %w", articleID, err)
	}
	s.MarkSaved(rev)
	return nil
}

// WordCount counts words in paragraph and header text, columns included.
func (s *Session) WordCount() int {
	return blocks.WordCount(s.blocks)
}
