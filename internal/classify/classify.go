package classify

import (
	"sort"
	"strings"
	"unicode"

	"ProductScanner/internal/domain"
)

// Ruleset is the filter configuration for one run: excluded topic categories
// and excluded text keywords, both matched case-insensitively. Build it once
// with NewRuleset and pass it by value; it is never mutated afterwards.
type Ruleset struct {
	categories map[string]struct{}
	keywords   map[string]struct{}
	phrases    [][]string
	phraseText []string
}

// NewRuleset normalizes the configured exclusion lists. Multi-word keywords
// are kept as token runs so they still match on word boundaries. Empty lists
// are valid and produce a ruleset that passes everything.
func NewRuleset(categories, keywords []string) Ruleset {
	rules := Ruleset{
		categories: make(map[string]struct{}, len(categories)),
		keywords:   make(map[string]struct{}, len(keywords)),
	}

	for _, category := range categories {
		name := strings.ToLower(strings.TrimSpace(category))
		if name == "" {
			continue
		}
		rules.categories[name] = struct{}{}
	}

	for _, keyword := range keywords {
		tokens := tokenize(strings.ToLower(keyword))
		switch len(tokens) {
		case 0:
		case 1:
			rules.keywords[tokens[0]] = struct{}{}
		default:
			rules.phrases = append(rules.phrases, tokens)
			rules.phraseText = append(rules.phraseText, strings.Join(tokens, " "))
		}
	}

	return rules
}

// CategoryCount reports how many excluded categories the ruleset carries.
func (r Ruleset) CategoryCount() int {
	return len(r.categories)
}

// KeywordCount reports how many excluded keywords the ruleset carries.
func (r Ruleset) KeywordCount() int {
	return len(r.keywords) + len(r.phrases)
}

// Classify decides whether a record is consumer-focused. Pure function: same
// record and ruleset always yield the same result.
//
// Category exclusion is authoritative and short-circuits: the first topic
// found in the excluded set rejects the record without looking at its text.
// Otherwise the tagline and description are folded into one blob and every
// excluded keyword found there (whole words only) is recorded; any hit
// rejects the record.
func Classify(rec domain.ProductRecord, rules Ruleset) domain.ClassificationResult {
	for _, topic := range rec.Topics {
		if _, ok := rules.categories[strings.ToLower(topic)]; ok {
			return domain.ClassificationResult{
				Included:                false,
				MatchedExcludedCategory: topic,
			}
		}
	}

	tokens := tokenize(strings.ToLower(rec.Tagline + " " + rec.Description))

	matched := map[string]struct{}{}
	for _, token := range tokens {
		if _, ok := rules.keywords[token]; ok {
			matched[token] = struct{}{}
		}
	}
	for i, phrase := range rules.phrases {
		if containsRun(tokens, phrase) {
			matched[rules.phraseText[i]] = struct{}{}
		}
	}

	if len(matched) == 0 {
		return domain.ClassificationResult{Included: true}
	}

	keywords := make([]string, 0, len(matched))
	for keyword := range matched {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	return domain.ClassificationResult{
		Included:        false,
		MatchedKeywords: keywords,
	}
}

// tokenize splits on any rune that is neither letter nor digit, so matching
// is whole-word: "team" never fires inside "steamship".
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func containsRun(tokens, run []string) bool {
	if len(run) == 0 || len(tokens) < len(run) {
		return false
	}
	for i := 0; i+len(run) <= len(tokens); i++ {
		match := true
		for j, want := range run {
			if tokens[i+j] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
