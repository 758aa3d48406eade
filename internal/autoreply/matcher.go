package autoreply

import (
	"regexp"
	"strings"
)

// Match scans triggers in order and returns the first enabled trigger
// the message content satisfies. At most one trigger fires per
// message; later matches are deliberately ignored.
func Match(content string, triggers []Trigger) (Trigger, bool) {
	for _, trigger := range triggers {
		if !trigger.Enabled || trigger.Word == "" {
			continue
		}
		if matches(content, trigger) {
			return trigger, true
		}
	}
	return Trigger{}, false
}

// updateTrigger applies apply to the trigger whose word matches
// (case-insensitive) and reports whether one was found.
func updateTrigger(triggers []Trigger, word string, apply func(*Trigger)) bool {
	for i := range triggers {
		if strings.EqualFold(triggers[i].Word, word) {
			apply(&triggers[i])
			return true
		}
	}
	return false
}

func matches(content string, trigger Trigger) bool {
	if trigger.WholeWordOnly {
		expr := `\b` + regexp.QuoteMeta(trigger.Word) + `\b`
		if !trigger.CaseSensitive {
			expr = `(?i)` + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		return re.MatchString(content)
	}

	if trigger.CaseSensitive {
		return strings.Contains(content, trigger.Word)
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(trigger.Word))
}
