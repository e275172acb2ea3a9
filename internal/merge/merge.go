// Package merge writes generated plugin source into target files. Updates
// are section-scoped: each command's code lives between a matched pair of
// sentinel markers, and an update replaces exactly the interior of the
// matching pair, leaving every byte outside it untouched. The file is
// parsed into literal and tagged-block segments first; naive string
// replacement is never used, so a partial or malformed marker can only
// abort the write, not corrupt the file.
package merge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Marker syntax, one reserved comment per block boundary.
const (
	beginPrefix = "// UCW-BEGIN: "
	endPrefix   = "// UCW-END: "
)

// ErrConflict is wrapped by every malformed-marker failure: unterminated
// blocks, stray END markers, and nested BEGIN markers. No write happens
// once a conflict is detected.
var ErrConflict = errors.New("merge conflict")

// BeginMarker returns the opening sentinel line for a command block.
func BeginMarker(name string) string { return beginPrefix + name }

// EndMarker returns the closing sentinel line for a command block.
func EndMarker(name string) string { return endPrefix + name }

// segment is one span of the target file: a literal span (name empty) or
// a tagged block including its marker lines.
type segment struct {
	name  string
	lines []string
}

// parseSegments splits content into literal and tagged-block segments.
func parseSegments(content string) ([]segment, error) {
	var segs []segment
	var cur segment

	flush := func() {
		if len(cur.lines) > 0 || cur.name != "" {
			segs = append(segs, cur)
		}
		cur = segment{}
	}

	inBlock := false
	blockName := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, beginPrefix):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, beginPrefix))
			if inBlock {
				return nil, fmt.Errorf("%w: marker for %q opened inside unterminated block %q", ErrConflict, name, blockName)
			}
			if name == "" {
				return nil, fmt.Errorf("%w: begin marker without a command name", ErrConflict)
			}
			flush()
			inBlock = true
			blockName = name
			cur = segment{name: name, lines: []string{line}}
		case strings.HasPrefix(trimmed, endPrefix):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, endPrefix))
			if !inBlock {
				return nil, fmt.Errorf("%w: end marker for %q without a matching begin", ErrConflict, name)
			}
			if name != blockName {
				return nil, fmt.Errorf("%w: end marker for %q closes block %q", ErrConflict, name, blockName)
			}
			cur.lines = append(cur.lines, line)
			flush()
			inBlock = false
			blockName = ""
		default:
			cur.lines = append(cur.lines, line)
		}
	}
	if inBlock {
		return nil, fmt.Errorf("%w: unterminated block %q", ErrConflict, blockName)
	}
	flush()
	return segs, nil
}

// render joins segments back into file content.
func render(segs []segment) string {
	var all []string
	for _, s := range segs {
		all = append(all, s.lines...)
	}
	return strings.Join(all, "\n")
}

// block renders one complete tagged block for name with the given body.
func block(name, body string) segment {
	lines := []string{BeginMarker(name)}
	lines = append(lines, strings.Split(strings.TrimSuffix(body, "\n"), "\n")...)
	lines = append(lines, EndMarker(name))
	return segment{name: name, lines: lines}
}

// Write places the generated source for name at path and returns path.
//
// When the target does not exist, or update is false, fullFile is written
// whole (overwriting any previous content). When update is true and the
// target exists, the block for name is replaced in place if present,
// otherwise a new block is appended immediately before the file's final
// entry-point line; all other content is preserved byte-for-byte. Writes
// go through a temp file and rename, so a detected anomaly never leaves
// a partially written target.
func Write(name, body, fullFile, path string, update bool) (string, error) {
	if !update {
		return path, writeAtomic(path, fullFile)
	}
	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return path, writeAtomic(path, fullFile)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	updated, err := Update(string(existing), name, body)
	if err != nil {
		return "", err
	}
	return path, writeAtomic(path, updated)
}

// Update returns content with the block for name replaced or inserted.
// Applying Update twice with the same body yields identical output.
func Update(content, name, body string) (string, error) {
	segs, err := parseSegments(content)
	if err != nil {
		return "", err
	}

	replaced := false
	for i := range segs {
		if segs[i].name == name {
			segs[i] = block(name, body)
			replaced = true
			break
		}
	}
	if !replaced {
		segs = insertBlock(segs, block(name, body))
	}
	return render(segs), nil
}

// insertBlock places blk immediately before the final entry-point line
// (func main) of the last literal segment containing one, falling back
// to appending at the end of the file.
func insertBlock(segs []segment, blk segment) []segment {
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].name != "" {
			continue
		}
		for j := len(segs[i].lines) - 1; j >= 0; j-- {
			if strings.HasPrefix(strings.TrimSpace(segs[i].lines[j]), "func main(") {
				before := append([]string{}, segs[i].lines[:j]...)
				after := append([]string{}, segs[i].lines[j:]...)
				head := segment{lines: append(before, "")}
				tail := segment{lines: after}
				out := append([]segment{}, segs[:i]...)
				out = append(out, head, blk, tail)
				return append(out, segs[i+1:]...)
			}
		}
	}
	return append(segs, segment{lines: []string{""}}, blk)
}

// Diff returns a unified-style preview of changing old into new, used by
// dry runs before an update is committed.
func Diff(old, new string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writePrefixed(&b, "+", d.Text)
		case diffmatchpatch.DiffDelete:
			writePrefixed(&b, "-", d.Text)
		}
	}
	return b.String()
}

func writePrefixed(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// writeAtomic writes content via a temp file in the target directory and
// renames it into place.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ucw-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
