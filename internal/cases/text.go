package cases

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Line prefixes of the plain-text result report written by the reference
// C++ harness (cpp_results.txt).
const (
	textCasePrefix    = "Test Case:"
	textSamplesPrefix = "First 100 samples:"
	textDistPrefix    = "Distribution:"
	textTotalPrefix   = "Total samples:"
	textErrorPrefix   = "Error in sample"
)

// maxTextLine bounds a single report line; distributions over large
// vocabularies are written on one line.
const maxTextLine = 16 << 20

// LoadTextResults reads a plain-text result report. Only the fields the
// comparison needs are kept: name, leading samples, distribution, total and
// the error of a case that stopped early. Parameter lines are skipped.
func LoadTextResults(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := ParseTextResults(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// ParseTextResults parses the plain-text result report from r.
func ParseTextResults(r io.Reader) ([]Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTextLine)

	var (
		out []Result
		cur *Result
	)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if name, ok := strings.CutPrefix(line, textCasePrefix); ok {
			out = append(out, Result{Case: strings.TrimSpace(name)})
			cur = &out[len(out)-1]
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch {
		case strings.HasPrefix(line, textSamplesPrefix):
			cur.Samples, err = parseBracketList(line)
		case strings.HasPrefix(line, textDistPrefix):
			cur.Distribution, err = parseBracketList(line)
		case strings.HasPrefix(line, textTotalPrefix):
			cur.Total, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, textTotalPrefix)))
		case strings.HasPrefix(line, textErrorPrefix):
			if _, msg, ok := strings.Cut(line, ": "); ok {
				cur.Error = msg
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseBracketList(line string) ([]int, error) {
	start := strings.IndexByte(line, '[')
	end := strings.LastIndexByte(line, ']')
	if start < 0 || end < start {
		return nil, fmt.Errorf("missing [...] in %q", line)
	}
	body := strings.TrimSpace(line[start+1 : end])
	if body == "" {
		return []int{}, nil
	}

	parts := strings.Split(body, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
