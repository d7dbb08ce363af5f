// Package lang supplies source text and language tags to the review
// pipeline. Detection is extension-driven with an enry content fallback for
// ambiguous extensions; no syntax tree is built at this layer.
package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/KuaaMU/codesage/pkg/review"
	"github.com/KuaaMU/codesage/pkg/textutil"
)

// Language tags for the supported languages.
const (
	Rust       = "Rust"
	JavaScript = "JavaScript"
	TypeScript = "TypeScript"
	Python     = "Python"
	Go         = "Go"
	Java       = "Java"
	CPP        = "C++"
	CSharp     = "C#"
)

// byExtension maps lowercase file extensions (without the dot) to language
// tags. The `h` extension is ambiguous between C and C++ and is resolved by
// content when possible.
var byExtension = map[string]string{
	"rs":   Rust,
	"js":   JavaScript,
	"jsx":  JavaScript,
	"ts":   TypeScript,
	"tsx":  TypeScript,
	"py":   Python,
	"go":   Go,
	"java": Java,
	"cpp":  CPP,
	"cc":   CPP,
	"cxx":  CPP,
	"hpp":  CPP,
	"h":    CPP,
	"c":    CPP,
	"cs":   CSharp,
}

// Extensions returns the supported extension allow-list, without dots,
// sorted for stable config output.
func Extensions() []string {
	exts := make([]string, 0, len(byExtension))
	for ext := range byExtension {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return exts
}

// Supported reports whether the path's extension is on the allow-list.
func Supported(path string) bool {
	_, ok := byExtension[normalizeExt(path)]

	return ok
}

// FromExtension resolves a language tag from a file path. It returns
// review.ErrUnsupportedLanguage when the extension is not recognized.
func FromExtension(path string) (string, error) {
	ext := normalizeExt(path)

	tag, ok := byExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: .%s", review.ErrUnsupportedLanguage, ext)
	}

	return tag, nil
}

// Detect resolves the language for a path, refining ambiguous extensions
// with enry's content classifier. Content may be nil.
func Detect(path string, content []byte) (string, error) {
	tag, err := FromExtension(path)
	if err != nil {
		return "", err
	}

	// C-family headers are the only ambiguous case; let enry decide when it
	// has an opinion.
	if normalizeExt(path) == "h" && len(content) > 0 {
		if guess := enry.GetLanguage(filepath.Base(path), content); guess != "" {
			return guess, nil
		}
	}

	return tag, nil
}

// LoadContext reads path and builds the per-file analysis context. It fails
// with review.ErrIO on filesystem errors, review.ErrUnsupportedLanguage on
// unknown extensions, and review.ErrParse for binary content.
func LoadContext(path string) (*review.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", review.ErrIO, path, err)
	}

	if textutil.IsBinary(data) {
		return nil, fmt.Errorf("%w: %s is binary", review.ErrParse, path)
	}

	tag, err := Detect(path, data)
	if err != nil {
		return nil, err
	}

	return &review.Context{
		FilePath: path,
		Source:   string(data),
		Language: tag,
	}, nil
}

func normalizeExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
