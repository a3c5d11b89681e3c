package importer

import (
	"bufio"
	"fmt"
	"os"
)

// CountLines counts the lines of the file at path so the progress
// total can be set before ingestion starts.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("count lines: %w", err)
	}
	return n, nil
}
