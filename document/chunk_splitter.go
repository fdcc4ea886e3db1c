package document

import (
	"strings"
	"unicode/utf8"
)

// CharacterSplitter packs separator-delimited parts into chunks of at most
// ChunkSize characters. Sizes count runes so Arabic text is measured the
// same way as Latin text. A single part longer than ChunkSize becomes its
// own chunk.
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

func NewCharacterSplitter(chunkSize int, chunkOverlap int, separator string) *CharacterSplitter {
	if separator == "" {
		separator = " "
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}

	return &CharacterSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separator:    separator,
	}
}

func (cs *CharacterSplitter) SplitText(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sepLen := utf8.RuneCountInString(cs.Separator)
	var chunks []string
	var current []string
	currentLen := 0

	for _, part := range strings.Split(text, cs.Separator) {
		if strings.TrimSpace(part) == "" {
			continue
		}

		partLen := utf8.RuneCountInString(part)
		if len(current) > 0 && currentLen+sepLen+partLen > cs.ChunkSize {
			chunks = append(chunks, strings.TrimSpace(strings.Join(current, cs.Separator)))
			current, currentLen = cs.overlap(current, sepLen)
		}

		if len(current) > 0 {
			currentLen += sepLen
		}
		current = append(current, part)
		currentLen += partLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, cs.Separator)))
	}

	return chunks, nil
}

// overlap keeps the trailing whole parts of a finished chunk that fit in
// ChunkOverlap runes.
func (cs *CharacterSplitter) overlap(parts []string, sepLen int) ([]string, int) {
	if cs.ChunkOverlap <= 0 {
		return nil, 0
	}

	size := 0
	start := len(parts)
	for i := len(parts) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(parts[i])
		if start < len(parts) {
			n += sepLen
		}
		if size+n > cs.ChunkOverlap {
			break
		}
		size += n
		start = i
	}

	kept := make([]string, len(parts)-start)
	copy(kept, parts[start:])
	return kept, size
}
