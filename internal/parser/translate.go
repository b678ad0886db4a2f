package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// CompilePattern compiles a regular expression written in Python syntax.
// A zero timeout uses DefaultMatchTimeout.
func CompilePattern(pattern string, timeout time.Duration) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(translatePattern(pattern), regexp2.None)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	re.MatchTimeout = timeout
	return re, nil
}

// captureGroup is a capturing group in pattern order
type captureGroup struct {
	name string
}

// translatePattern rewrites Python regular expression syntax into the
// .NET dialect understood by regexp2:
//   - (?P<name>...) becomes (?<name>...)
//   - (?P=name) becomes \k<name>
//   - \N backreferences are renumbered, since .NET numbers unnamed
//     groups before named ones; references to named groups become \k<name>
func translatePattern(pattern string) string {
	groups := scanGroups(pattern)

	// .NET number of every unnamed group, keyed by its Python number
	unnamed := make(map[int]int)
	n := 0
	for i, g := range groups {
		if g.name == "" {
			n++
			unnamed[i+1] = n
		}
	}

	var sb strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			next := pattern[i+1]
			if !inClass && next >= '1' && next <= '9' {
				digits := readBackrefDigits(pattern[i+1:], len(groups))
				ref, _ := strconv.Atoi(digits)
				switch {
				case ref >= 1 && ref <= len(groups) && groups[ref-1].name != "":
					sb.WriteString(`\k<` + groups[ref-1].name + `>`)
				case unnamed[ref] != 0:
					sb.WriteString(`\` + strconv.Itoa(unnamed[ref]))
				default:
					sb.WriteString(`\` + digits)
				}
				i += len(digits)
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(next)
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
			sb.WriteByte(c)
		case c == '[':
			inClass = true
			sb.WriteByte(c)
			// a leading ] or ^] is literal
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				sb.WriteByte('^')
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				sb.WriteByte(']')
				i++
			}
		case strings.HasPrefix(pattern[i:], "(?P<"):
			sb.WriteString("(?<")
			i += len("(?P<") - 1
		case strings.HasPrefix(pattern[i:], "(?P="):
			end := strings.IndexByte(pattern[i:], ')')
			if end < 0 {
				sb.WriteString(pattern[i:])
				return sb.String()
			}
			sb.WriteString(`\k<` + pattern[i+len("(?P="):i+end] + `>`)
			i += end
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// scanGroups lists capturing groups in the order their opening
// parenthesis appears.
func scanGroups(pattern string) []captureGroup {
	var groups []captureGroup
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
			}
		case c == '(':
			rest := pattern[i+1:]
			switch {
			case !strings.HasPrefix(rest, "?"):
				groups = append(groups, captureGroup{})
			case strings.HasPrefix(rest, "?P<"):
				groups = append(groups, captureGroup{name: groupName(rest[len("?P<"):], '>')})
			case strings.HasPrefix(rest, "?<") && !strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!"):
				groups = append(groups, captureGroup{name: groupName(rest[len("?<"):], '>')})
			case strings.HasPrefix(rest, "?'"):
				groups = append(groups, captureGroup{name: groupName(rest[len("?'"):], '\'')})
			}
		}
	}
	return groups
}

func groupName(s string, terminator byte) string {
	end := strings.IndexByte(s, terminator)
	if end < 0 {
		return ""
	}
	return s[:end]
}

// readBackrefDigits returns the digits of a backreference: two digits
// when they name an existing group, otherwise one.
func readBackrefDigits(s string, groupCount int) string {
	if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
		if n, err := strconv.Atoi(s[:2]); err == nil && n <= groupCount {
			return s[:2]
		}
	}
	return s[:1]
}
