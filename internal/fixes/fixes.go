// Package fixes rewrites Emscripten-dialect WebIDL into text the standard
// grammar accepts. Every fixup is a pure string-to-string function.
package fixes

import (
	"regexp"
	"sort"
	"strings"
)

var (
	commentRe    = regexp.MustCompile(`(?m)(/\*[\s\S]*?\*/|//.*?$)`)
	implementsRe = regexp.MustCompile(`(?i)\b(\w+)\s+implements\s+(\w+)\s*;`)
)

// Emscripten applies every fixup in order: Inheritance, then Array.
func Emscripten(src string) string {
	return Array(Inheritance(src))
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// Inheritance turns the statement `Left implements Right;` into the
// inheritance clause `interface Left: Right {`. The statement itself is
// commented out. Statements inside comments are ignored.
func Inheritance(src string) string {
	scratch := blankComments(src)

	type pair struct{ left, right string }
	var (
		pairs []pair
		edits []edit
	)

	offset := 0
	for _, line := range strings.SplitAfter(scratch, "\n") {
		if m := implementsRe.FindStringSubmatchIndex(line); m != nil {
			pairs = append(pairs, pair{line[m[2]:m[3]], line[m[4]:m[5]]})
			start, end := offset+m[0], offset+m[1]
			// a comment inside the statement must not close ours early
			stmt := strings.ReplaceAll(src[start:end], "*/", "* /")
			edits = append(edits, edit{start, end, "/* " + stmt + " */"})
		}
		offset += len(line)
	}

	for _, p := range pairs {
		re := regexp.MustCompile(`interface\s+` + regexp.QuoteMeta(p.left) + `\s*\{`)
		loc := re.FindStringIndex(scratch)
		if loc == nil {
			continue
		}
		edits = append(edits, edit{loc[0], loc[1], "interface " + p.left + ": " + p.right + " {"})
	}

	return applyEdits(src, edits)
}

var arrayRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)attribute unsigned (\w+)\[\]`), "attribute FrozenArray<unsigned ${1}>"},
	{regexp.MustCompile(`(?i)attribute (\w+)\[\]`), "attribute FrozenArray<${1}>"},
	{regexp.MustCompile(`(?i)unsigned (\w+)\[\]`), "FrozenArray<unsigned ${1}>"},
	{regexp.MustCompile(`(?i)(\w+)\[\]`), "FrozenArray<${1}>"},
}

// Array rewrites C-style `T[]` array sugar into `FrozenArray<T>`.
func Array(src string) string {
	for _, rule := range arrayRules {
		src = rule.re.ReplaceAllString(src, rule.repl)
	}
	return src
}

// blankComments replaces the contents of every comment with spaces, keeping
// newlines, so offsets into the result are valid in src.
func blankComments(src string) string {
	return commentRe.ReplaceAllStringFunc(src, func(c string) string {
		b := []byte(c)
		for i := range b {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
		return string(b)
	})
}

// applyEdits applies non-overlapping edits to src.
func applyEdits(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(src[last:])
	return b.String()
}
