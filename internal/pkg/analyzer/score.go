package analyzer

import (
	"regexp"
	"strconv"
)

var scorePattern = regexp.MustCompile(`HOOK SCORE: (\d+)/100`)

// ExtractScore pulls the numeric score out of an analysis block. A missing or
// malformed score line yields nil; the analysis text is still usable.
func ExtractScore(analysis string) *int {
	match := scorePattern.FindStringSubmatch(analysis)
	if match == nil {
		return nil
	}

	score, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	return &score
}
