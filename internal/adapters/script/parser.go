// Package script implements the reference parser and flow graph builder for
// the editor's script dialect.
//
// The dialect is line oriented:
//
//	:: Name          opens a section block
//	:: Name [scene]  opens a scene block ([menu] works the same way)
//	-> Target        records a divert step
//	* text -> Target records a choice step
//	// ...           comment, ignored
//
// Anything else is a plain text step. Text before the first block header
// belongs to an implicit prelude block.
package script

import (
	"strings"

	"go.trai.ch/zerr"

	"go.scriptor.dev/stash/internal/core/domain"
	"go.scriptor.dev/stash/internal/core/ports"
)

// preludeName is the name of the implicit block that collects content
// appearing before the first header.
const preludeName = "prelude"

// Parser parses script source into its block structure. It holds no state;
// the zero value is ready to use.
type Parser struct{}

var _ ports.Parser = (*Parser)(nil)

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements ports.Parser. The path goes into error context only: the
// same content always produces the same structure, whatever file it came
// from.
func (p *Parser) Parse(content, path string) (*domain.Structure, error) {
	lines := splitLines(content)

	structure := &domain.Structure{
		Blocks: []domain.Block{},
		Lines:  len(lines),
	}
	seen := make(map[string]int)
	current := -1

	for i, raw := range lines {
		n := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "::") {
			name, kind := parseHeader(line)
			if name == "" {
				return nil, parseFail("empty block name", path, n)
			}
			if _, dup := seen[name]; dup {
				return nil, parseFail("duplicate block name "+name, path, n)
			}
			seen[name] = n
			structure.Blocks = append(structure.Blocks, domain.Block{
				Name:    name,
				Kind:    kind,
				Line:    n,
				EndLine: n,
			})
			current = len(structure.Blocks) - 1
			continue
		}

		step, needsBlock := classifyStep(line, n)
		if current == -1 {
			if needsBlock {
				what := "divert"
				if step.Kind == domain.StepChoice {
					what = "choice"
				}
				return nil, parseFail(what+" outside block", path, n)
			}
			// Plain text opens the implicit prelude.
			seen[preludeName] = n
			structure.Blocks = append(structure.Blocks, domain.Block{
				Name:    preludeName,
				Kind:    domain.BlockPrelude,
				Line:    n,
				EndLine: n,
			})
			current = 0
		}

		block := &structure.Blocks[current]
		block.Steps = append(block.Steps, step)
		block.EndLine = n
	}

	return structure, nil
}

// classifyStep decides what kind of step a non-header line records.
// needsBlock reports whether the step may only appear inside an open block;
// plain text may instead open the prelude.
func classifyStep(line string, n int) (step domain.Step, needsBlock bool) {
	if rest, ok := strings.CutPrefix(line, "->"); ok {
		if target := strings.TrimSpace(rest); target != "" {
			return domain.Step{Kind: domain.StepDivert, Target: target, Line: n}, true
		}
		// An arrow with no destination reads as prose, not flow.
		return domain.Step{Kind: domain.StepText, Text: line, Line: n}, false
	}

	if rest, ok := strings.CutPrefix(line, "*"); ok {
		if text, target, found := strings.Cut(rest, "->"); found {
			if target = strings.TrimSpace(target); target != "" {
				return domain.Step{
					Kind:   domain.StepChoice,
					Text:   strings.TrimSpace(text),
					Target: target,
					Line:   n,
				}, true
			}
		}
		// A bare bullet is prose too.
		return domain.Step{Kind: domain.StepText, Text: line, Line: n}, false
	}

	return domain.Step{Kind: domain.StepText, Text: line, Line: n}, false
}

// parseHeader extracts the block name and kind from a ":: Name [tag]" line.
// Unknown tags fall back to section rather than failing, so a new editor
// version can introduce tags without breaking older caches.
func parseHeader(line string) (string, domain.BlockKind) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "::"))
	kind := domain.BlockSection

	if i := strings.LastIndex(rest, "["); i >= 0 && strings.HasSuffix(rest, "]") {
		tag := strings.TrimSpace(rest[i+1 : len(rest)-1])
		rest = strings.TrimSpace(rest[:i])
		switch tag {
		case "scene":
			kind = domain.BlockScene
		case "menu":
			kind = domain.BlockMenu
		}
	}

	return rest, kind
}

// splitLines splits on newlines, tolerating CRLF endings. A trailing newline
// does not count as an extra line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// parseFail wraps ErrParse with positional context.
func parseFail(msg, path string, line int) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrParse, msg), "path", path), "line", line)
}
