package domain

// BlockKind classifies a script block.
type BlockKind string

const (
	// BlockSection is a plain named section.
	BlockSection BlockKind = "section"
	// BlockScene is a scene block.
	BlockScene BlockKind = "scene"
	// BlockMenu is a menu block presenting choices.
	BlockMenu BlockKind = "menu"
	// BlockPrelude holds content that appears before the first block header.
	BlockPrelude BlockKind = "prelude"
)

// StepKind classifies a single step within a block.
type StepKind string

const (
	// StepText is a plain script line.
	StepText StepKind = "text"
	// StepDivert is an unconditional jump to another block.
	StepDivert StepKind = "divert"
	// StepChoice is a labeled choice leading to another block.
	StepChoice StepKind = "choice"
)

// Step is one line of meaning inside a block.
type Step struct {
	Kind   StepKind `json:"kind"`
	Text   string   `json:"text,omitzero"`
	Target string   `json:"target,omitzero"`
	Line   int      `json:"line"`
}

// Block is a named region of a script.
type Block struct {
	Name    string    `json:"name"`
	Kind    BlockKind `json:"kind"`
	Line    int       `json:"line"`
	EndLine int       `json:"end_line"`
	Steps   []Step    `json:"steps,omitzero"`
}

// Structure is the parsed structural representation of a script: its blocks
// in source order plus the total line count. It is one of the two derived
// artifacts the cache exists to avoid recomputing.
type Structure struct {
	Blocks []Block `json:"blocks"`
	Lines  int     `json:"lines"`
}

// Block returns the block with the given name, or nil if no such block
// exists.
func (s *Structure) Block(name string) *Block {
	for i := range s.Blocks {
		if s.Blocks[i].Name == name {
			return &s.Blocks[i]
		}
	}
	return nil
}
