// Package tools holds the adapters that touch the local environment: the
// codebase summarizer and the file writer.
package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	maxReadmeBytes = 4 << 10
	maxLargeFiles  = 5
)

// skipDirs are directory names never worth summarizing.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"dist":         true,
	"build":        true,
}

// languageByExt maps file extensions to display names for the summary.
var languageByExt = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".tsx":  "TypeScript",
	".jsx":  "JavaScript",
	".rs":   "Rust",
	".java": "Java",
	".rb":   "Ruby",
	".c":    "C",
	".h":    "C",
	".cpp":  "C++",
	".sh":   "Shell",
	".yml":  "YAML",
	".yaml": "YAML",
	".md":   "Markdown",
	".sql":  "SQL",
}

type fileInfo struct {
	path string
	size int64
}

// AnalyzeCodebase walks the directory at path and produces a text summary:
// language breakdown by file count, the largest source files, and the opening
// of any README. The summary feeds the codebase_context slot.
func AnalyzeCodebase(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path not found: %s", path)
		}
		return "", fmt.Errorf("read error: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}

	languageCounts := make(map[string]int)
	var files []fileInfo
	var readme string

	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep summarizing the rest.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if lang, ok := languageByExt[ext]; ok {
			languageCounts[lang]++

			fi, err := d.Info()
			if err == nil {
				rel, relErr := filepath.Rel(path, p)
				if relErr != nil {
					rel = p
				}
				files = append(files, fileInfo{path: rel, size: fi.Size()})
			}
		}

		if readme == "" && strings.EqualFold(d.Name(), "README.md") {
			if data, err := os.ReadFile(p); err == nil {
				if len(data) > maxReadmeBytes {
					data = data[:maxReadmeBytes]
				}
				readme = string(data)
			}
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("read error: %w", walkErr)
	}

	if len(files) == 0 && readme == "" {
		return "", fmt.Errorf("no recognizable source files under %s", path)
	}

	return formatSummary(path, languageCounts, files, readme), nil
}

func formatSummary(path string, languageCounts map[string]int, files []fileInfo, readme string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Codebase summary for %s\n\n", path)

	if len(languageCounts) > 0 {
		b.WriteString("Languages by file count:\n")
		langs := make([]string, 0, len(languageCounts))
		for lang := range languageCounts {
			langs = append(langs, lang)
		}
		sort.Slice(langs, func(i, j int) bool {
			if languageCounts[langs[i]] != languageCounts[langs[j]] {
				return languageCounts[langs[i]] > languageCounts[langs[j]]
			}
			return langs[i] < langs[j]
		})
		for _, lang := range langs {
			fmt.Fprintf(&b, "  %s: %d\n", lang, languageCounts[lang])
		}
	}

	if len(files) > 0 {
		sort.Slice(files, func(i, j int) bool { return files[i].size > files[j].size })
		n := len(files)
		if n > maxLargeFiles {
			n = maxLargeFiles
		}
		b.WriteString("\nLargest source files:\n")
		for _, f := range files[:n] {
			fmt.Fprintf(&b, "  %s (%d bytes)\n", f.path, f.size)
		}
	}

	if readme != "" {
		b.WriteString("\nREADME excerpt:\n")
		b.WriteString(readme)
		b.WriteString("\n")
	}

	return b.String()
}
