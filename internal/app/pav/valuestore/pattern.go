package valuestore

import (
	"regexp"
	"strings"
	"sync"
)

var patterns sync.Map

// delimiters that mark a pattern written as "/expr/flags".
const delimiters = "/#~%@!|"

// compilePattern compiles an attribute pattern. Patterns may be written with
// delimiters and trailing flags, as in "/^[a-z]+$/i"; the flags i, m, s and U
// are honored and u is accepted. Anything else is compiled as it is.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patterns.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(translatePattern(pattern))
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}

func translatePattern(pattern string) string {
	if len(pattern) < 2 || !strings.ContainsRune(delimiters, rune(pattern[0])) {
		return pattern
	}

	end := strings.LastIndexByte(pattern, pattern[0])
	if end <= 0 {
		return pattern
	}
	body, modifiers := pattern[1:end], pattern[end+1:]

	var flags strings.Builder
	for _, m := range modifiers {
		switch m {
		case 'i', 'm', 's', 'U':
			flags.WriteRune(m)
		case 'u':
		default:
			return pattern
		}
	}
	if flags.Len() > 0 {
		return "(?" + flags.String() + ")" + body
	}
	return body
}
