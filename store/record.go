package store

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// MaxLineSize is the longest record line we can read
const MaxLineSize = 64 * 1024 * 1024

var validName = regexp.MustCompile(`^[\w-]+$`)

func validateName(name string) error {
	if name == "" || !validName.MatchString(name) {
		return fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return nil
}

func validateKey(key string, sep byte) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if strings.IndexByte(key, sep) >= 0 {
		return fmt.Errorf("%w: key '%s' contains separator %q", ErrInvalidKey, key, sep)
	}
	if strings.ContainsAny(key, "\r\n") {
		return fmt.Errorf("%w: key %q contains a newline", ErrInvalidKey, key)
	}
	return nil
}

type record struct {
	// 1-based line number in the data file
	lineNo int
	key    string
	value  string
	line   string
}

// perf: allow re-using record
func parseRecordLine(line string, sep byte, res *record) error {
	idx := strings.IndexByte(line, sep)
	if idx < 0 {
		return fmt.Errorf("%w: line %d has no separator %q", ErrCorruptRecord, res.lineNo, sep)
	}
	res.key = line[:idx]
	res.value = line[idx+1:]
	res.line = line
	return nil
}

func formatRecordLine(key string, sep byte, value string) string {
	return key + string(sep) + value + "\n"
}

// scanRecords calls fn for every record in r in file order.
// Empty lines are skipped. Scanning stops when fn returns false or an error.
func scanRecords(r io.Reader, sep byte, fn func(rec *record) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	var rec record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue // skip empty lines
		}
		rec.lineNo = lineNo
		if err := parseRecordLine(line, sep, &rec); err != nil {
			return err
		}
		more, err := fn(&rec)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return scanner.Err()
}
