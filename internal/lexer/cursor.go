package lexer

import (
	"cgull/internal/source"
)

// Cursor walks the raw bytes of one file and tracks the current offset.
type Cursor struct {
	file *source.File
	off  uint32
}

func NewCursor(file *source.File) Cursor {
	return Cursor{file: file}
}

func (c *Cursor) EOF() bool {
	return int(c.off) >= len(c.file.Content)
}

// Peek возвращает текущий байт, 0 на EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.file.Content[c.off]
}

// PeekAt возвращает байт со смещением n от текущего.
func (c *Cursor) PeekAt(n uint32) byte {
	if int(c.off+n) >= len(c.file.Content) {
		return 0
	}
	return c.file.Content[c.off+n]
}

func (c *Cursor) Advance() {
	if !c.EOF() {
		c.off++
	}
}

func (c *Cursor) Offset() uint32 {
	return c.off
}

// Slice returns content bytes in [start, end).
func (c *Cursor) Slice(start, end uint32) []byte {
	return c.file.Content[start:end]
}

func (c *Cursor) Span(start uint32) source.Span {
	return source.Span{File: c.file.ID, Start: start, End: c.off}
}
