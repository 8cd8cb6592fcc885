package gen

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSink(t *testing.T) {
	t.Run("snapshot captures a span", func(t *testing.T) {
		var s BufferSink
		s.Append(Plain, "a")
		require.NoError(t, s.StartSnapshot())
		s.Append(Keyword, "b")
		s.Append(Plain, "c")
		text, err := s.EndSnapshot()
		require.NoError(t, err)
		s.Append(Plain, "d")

		assert.Equal(t, "bc", text)
		assert.Equal(t, "abcd", s.String())
	})

	t.Run("snapshots do not nest", func(t *testing.T) {
		var s BufferSink
		require.NoError(t, s.StartSnapshot())
		assert.ErrorIs(t, s.StartSnapshot(), ErrSnapshotOpen)
	})

	t.Run("end without start", func(t *testing.T) {
		var s BufferSink
		_, err := s.EndSnapshot()
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("clear discards text and snapshot", func(t *testing.T) {
		var s BufferSink
		s.Append(Plain, "a")
		require.NoError(t, s.StartSnapshot())
		s.Clear()

		assert.Empty(t, s.String())
		_, err := s.EndSnapshot()
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})
}

func TestColorSink(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var w bytes.Buffer
	s := NewColorSink(&w)
	s.Append(Keyword, "type")
	s.Append(Plain, " A ")
	s.Append(Keyword, "struct")

	assert.Equal(t, "type A struct", w.String())
	assert.Equal(t, "type A struct", s.String())
}

func TestTee(t *testing.T) {
	var s BufferSink
	out := &tee{sink: &s}
	out.Append(Plain, "head\n")
	off := out.offset()
	out.Append(Plain, "body\n")

	assert.Equal(t, "body\n", out.since(off))
	assert.Equal(t, "head\nbody\n", s.String())
}
