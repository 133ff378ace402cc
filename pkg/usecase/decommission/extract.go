package decommission

import (
	"strings"
	"unicode"

	"github.com/m-mizutani/agentsweep/pkg/model"
)

const trailingPunctuation = `.,;:!}'"`

// ExtractFileKeys collects the object keys of the workspace's conversation files referenced
// anywhere in messages. Keys may be embedded in longer text or URLs; query strings,
// fragments and trailing punctuation are stripped.
func ExtractFileKeys(messages model.Node, workspaceID model.WorkspaceID) map[string]struct{} {
	keys := make(map[string]struct{})
	if workspaceID == "" {
		return keys
	}

	prefix := model.FileKeyPrefix(workspaceID)
	walkStrings(messages, func(s string) {
		for _, key := range findFileKeys(s, prefix) {
			keys[key] = struct{}{}
		}
	})

	return keys
}

func walkStrings(n model.Node, visit func(string)) {
	switch x := n.(type) {
	case model.String:
		visit(string(x))
	case model.List:
		for _, e := range x {
			walkStrings(e, visit)
		}
	case model.Map:
		for _, e := range x {
			walkStrings(e, visit)
		}
	}
}

func findFileKeys(s, prefix string) []string {
	var keys []string
	for {
		i := strings.Index(s, prefix)
		if i < 0 {
			return keys
		}
		rest := s[i:]

		end := strings.IndexFunc(rest, isKeyBoundary)
		if end < 0 {
			end = len(rest)
		}
		key := rest[:end]
		if j := strings.IndexAny(key, "?#"); j >= 0 {
			key = key[:j]
		}
		key = cutUnbalanced(key)
		key = strings.TrimRight(key, trailingPunctuation)

		// The bare prefix names no file
		if len(key) > len(prefix) {
			keys = append(keys, key)
		}
		s = rest[end:]
	}
}

func isKeyBoundary(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '"', '\'', '<', '>', '`', '\\':
		return true
	}
	return false
}

// cutUnbalanced cuts key at the first ')' or ']' without a matching opener inside the key,
// which ends a markdown link or a parenthesized reference. "a(1).png" is kept whole.
func cutUnbalanced(key string) string {
	var parens, brackets int
	for i, r := range key {
		switch r {
		case '(':
			parens++
		case '[':
			brackets++
		case ')':
			if parens == 0 {
				return key[:i]
			}
			parens--
		case ']':
			if brackets == 0 {
				return key[:i]
			}
			brackets--
		}
	}
	return key
}
