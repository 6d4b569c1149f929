package keyword

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"
)

// kindByName maps a table's symbolic keyword-kind name to a Kind. It is
// the inverse of names, used only while parsing tables.
var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(names))
	for k, n := range names {
		m[n] = k
	}
	return m
}()

// ParseTable parses the textual keyword-table format described in
// spec §6:
//
//	name = English
//	description = Default English keyword table
//	keyword function = function
//	keyword if = if
//	keyword else = else
//	alias != = not
//
// Blank lines and lines beginning with '#' are ignored. Each
// "keyword <kind> = <text>" line registers a keyword; <kind> must be one
// of the symbolic names in the Kind enumeration (see (Kind).String).
// Each "alias <alias-text> = <canonical-operator-text>" line registers an
// operator alias. Unicode identifiers are supported in keyword text.
func ParseTable(code string, r *bufio.Reader) (Table, error) {
	t := Table{
		Code:     code,
		Keywords: make(map[string]Kind),
		Aliases:  make(map[string]string),
	}

	lineNo := 0
	for {
		lineNo++
		line, err := r.ReadString('\n')
		if len(line) == 0 && err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			if err != nil {
				break
			}
			continue
		}

		key, val, ok := splitAssign(line)
		if !ok {
			return Table{}, errors.Errorf("keyword: %s:%d: malformed line %q", code, lineNo, line)
		}

		switch {
		case key == "name":
			t.Name = val
		case key == "description":
			t.Description = val
		case strings.HasPrefix(key, "keyword "):
			kindName := strings.TrimSpace(strings.TrimPrefix(key, "keyword "))
			k, ok := kindByName[kindName]
			if !ok {
				return Table{}, errors.Errorf("keyword: %s:%d: unknown keyword kind %q", code, lineNo, kindName)
			}
			t.Keywords[val] = k
		case strings.HasPrefix(key, "alias "):
			aliasText := strings.TrimSpace(strings.TrimPrefix(key, "alias "))
			t.Aliases[aliasText] = val
		default:
			return Table{}, errors.Errorf("keyword: %s:%d: unknown directive %q", code, lineNo, key)
		}

		if err != nil {
			break
		}
	}
	return t, nil
}

// splitAssign splits "key = value" on the first '=' not inside the key
// portion, trimming surrounding whitespace from both sides.
func splitAssign(line string) (key, val string, ok bool) {
	// A whitespace-delimited " = " is the assignment, so an alias key
	// such as "!=" may itself contain '='.
	i, width := strings.Index(line, " = "), 3
	if i < 0 {
		i, width = strings.IndexByte(line, '='), 1
	}
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	val = strings.TrimSpace(line[i+width:])
	if key == "" {
		return "", "", false
	}
	return key, val, true
}
