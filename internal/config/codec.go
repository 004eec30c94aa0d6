package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// header is written verbatim at the top of every file rewritten by Save.
const header = `; katd configuration
; Lines starting with ; or # are comments. Unknown keys are ignored.
`

// parseLine strips comments and extracts a NAME = VALUE pair. It returns
// ok=false for blank lines, full-line comments, and malformed lines (spec
// §7: "malformed lines are skipped silently").
func parseLine(line string) (name, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}

	// Strip a trailing inline comment at the first ';' or '#'.
	if idx := strings.IndexAny(trimmed, ";#"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}

	eq := strings.IndexByte(trimmed, '=')
	if eq < 0 {
		return "", "", false
	}

	name = strings.TrimSpace(trimmed[:eq])
	value = strings.TrimSpace(trimmed[eq+1:])
	if name == "" || value == "" {
		return "", "", false
	}
	return name, value, true
}

// decode parses r into a name->raw-value map. Unknown names are kept in the
// map too; the caller decides what to do with them (parseInto ignores
// them, per spec §6: "Unknown names are ignored").
func decode(r io.Reader) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		values[name] = value
	}
	return values
}

// parseInto applies recognized values onto cfg, leaving defaults in place
// for anything missing or out of range is accepted as-is (spec §7: clamped
// later by adjustments, not at load time). Returns the set of recognized
// names actually present in the file, for Load's append-missing step.
func parseInto(cfg *Config, values map[string]string) map[string]bool {
	present := make(map[string]bool)
	for _, p := range Params(cfg) {
		raw, ok := values[p.Name]
		if !ok {
			continue
		}
		present[p.Name] = true
		if p.IsFloat {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				p.set(f)
			}
		} else {
			if i, err := strconv.Atoi(raw); err == nil {
				p.set(float64(i))
			}
		}
	}
	return present
}

// encode renders cfg with the fixed header and all parameters in
// declaration order (spec §6: "on explicit save the file is rewritten with
// the fixed comment header and all 13 entries in declaration order").
func encode(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for _, p := range Params(cfg) {
		if _, err := fmt.Fprintf(w, "%s = %s\n", p.Name, p.FormatValue()); err != nil {
			return err
		}
	}
	return nil
}

// encodeMissing appends only the given parameter names to w, each set to
// its current (default) value — used by Load's append-on-missing behavior
// so an existing file's layout and comments are otherwise untouched.
func encodeMissing(w io.Writer, cfg *Config, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	byName := make(map[string]*ParamSpec, len(missing))
	for _, p := range Params(cfg) {
		byName[p.Name] = p
	}
	for _, name := range missing {
		p := byName[name]
		if _, err := fmt.Fprintf(w, "%s = %s\n", p.Name, p.FormatValue()); err != nil {
			return err
		}
	}
	return nil
}
