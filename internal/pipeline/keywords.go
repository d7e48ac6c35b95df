package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadKeywordsFromFile reads keywords from a file, one per line, preserving
// input order. Blank lines and #-comments are skipped; duplicates keep
// their first occurrence so each keyword is unique per run.
func ReadKeywordsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var keywords []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			keywords = append(keywords, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan keyword file: %w", err)
	}

	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords in %s", path)
	}

	return keywords, nil
}
