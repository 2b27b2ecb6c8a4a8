package source

// FileID identifies a file inside a FileSet.
type FileID uint32

// NoFileID marks the absence of a file reference.
const NoFileID FileID = ^FileID(0)

// Digest is a sha256 content hash.
type Digest [32]byte

// File stores one loaded source file together with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of the start of each line
	Hash    Digest
}

// Position is a resolved human-readable location.
// Line is 1-based; Column is a 0-based byte offset inside the line,
// which matches what the diagnostics print.
type Position struct {
	Line   uint32
	Column uint32
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.LineIdx)
}

// LineText returns the text of a 1-based line without the trailing newline.
func (f *File) LineText(line uint32) string {
	if line == 0 || int(line) > len(f.LineIdx) {
		return ""
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line]
	}
	text := f.Content[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return string(text)
}

// PositionFor resolves a byte offset to a line/column pair.
func (f *File) PositionFor(offset uint32) Position {
	// бинарный поиск по индексу строк
	lo, hi := 0, len(f.LineIdx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.LineIdx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{
		Line:   uint32(lo + 1),
		Column: offset - f.LineIdx[lo],
	}
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 64)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}
