package classify

import (
	"reflect"
	"testing"

	"ProductScanner/internal/domain"
)

func TestClassifyExcludesByCategory(t *testing.T) {
	t.Parallel()

	rules := NewRuleset([]string{"SaaS"}, []string{"team", "dashboard"})
	rec := domain.ProductRecord{
		ID:      "p1",
		Name:    "Acme Cloud",
		Tagline: "Team dashboard for subscription startups",
		Topics:  []string{"SaaS"},
	}

	result := Classify(rec, rules)
	if result.Included {
		t.Fatalf("expected record to be excluded")
	}
	if result.MatchedExcludedCategory != "SaaS" {
		t.Fatalf("unexpected matched category: %s", result.MatchedExcludedCategory)
	}
	if len(result.MatchedKeywords) != 0 {
		t.Fatalf("category match should not collect keywords, got %v", result.MatchedKeywords)
	}
}

func TestClassifyIncludesConsumerProduct(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(DefaultExcludedCategories, DefaultExcludedKeywords)
	rec := domain.ProductRecord{
		ID:          "p2",
		Name:        "Calm Steps",
		Tagline:     "Daily walking meditations",
		Description: "A pocket coach that turns your walk into a mindfulness session.",
		Topics:      []string{"Health & Fitness", "Lifestyle"},
	}

	result := Classify(rec, rules)
	if !result.Included {
		t.Fatalf("expected record to be included, got category %q keywords %v",
			result.MatchedExcludedCategory, result.MatchedKeywords)
	}
}

func TestClassifyCollectsAllMatchedKeywords(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(nil, []string{"team", "dashboard", "analytics"})
	rec := domain.ProductRecord{
		ID:      "p3",
		Tagline: "Team dashboard for analytics",
		Topics:  []string{"Productivity"},
	}

	result := Classify(rec, rules)
	if result.Included {
		t.Fatalf("expected record to be excluded")
	}
	want := []string{"analytics", "dashboard", "team"}
	if !reflect.DeepEqual(result.MatchedKeywords, want) {
		t.Fatalf("expected keywords %v, got %v", want, result.MatchedKeywords)
	}
}

func TestClassifyMatchesWholeWordsOnly(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(nil, []string{"team"})

	inside := domain.ProductRecord{ID: "p4", Description: "Steamship adventures across the Atlantic"}
	if result := Classify(inside, rules); !result.Included {
		t.Fatalf("substring inside a longer word must not match, got %v", result.MatchedKeywords)
	}

	exact := domain.ProductRecord{ID: "p5", Description: "Bring your team along"}
	if result := Classify(exact, rules); result.Included {
		t.Fatalf("expected whole-word occurrence to exclude the record")
	}
}

func TestClassifyIgnoresCaseAndPunctuation(t *testing.T) {
	t.Parallel()

	rules := NewRuleset([]string{"developer tools"}, []string{"API"})

	byCategory := domain.ProductRecord{ID: "p6", Topics: []string{"Developer Tools"}}
	result := Classify(byCategory, rules)
	if result.Included {
		t.Fatalf("expected case-insensitive category match")
	}
	if result.MatchedExcludedCategory != "Developer Tools" {
		t.Fatalf("matched category should keep the record's spelling, got %s", result.MatchedExcludedCategory)
	}

	byKeyword := domain.ProductRecord{ID: "p7", Tagline: "Ship your API, fast."}
	result = Classify(byKeyword, rules)
	if result.Included {
		t.Fatalf("expected case-insensitive keyword match")
	}
	if len(result.MatchedKeywords) != 1 || result.MatchedKeywords[0] != "api" {
		t.Fatalf("unexpected keywords: %v", result.MatchedKeywords)
	}
}

func TestClassifyScansTaglineAndDescription(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(nil, []string{"workflow"})

	inTagline := domain.ProductRecord{ID: "p8", Tagline: "Your workflow, simplified"}
	if result := Classify(inTagline, rules); result.Included {
		t.Fatalf("expected tagline keyword to exclude the record")
	}

	inDescription := domain.ProductRecord{ID: "p9", Description: "Automates the workflow end to end."}
	if result := Classify(inDescription, rules); result.Included {
		t.Fatalf("expected description keyword to exclude the record")
	}
}

func TestClassifyMatchesMultiWordKeywords(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(nil, []string{"machine learning"})

	hit := domain.ProductRecord{ID: "p10", Description: "Powered by machine learning, tuned for speed"}
	result := Classify(hit, rules)
	if result.Included {
		t.Fatalf("expected phrase match to exclude the record")
	}
	if len(result.MatchedKeywords) != 1 || result.MatchedKeywords[0] != "machine learning" {
		t.Fatalf("unexpected keywords: %v", result.MatchedKeywords)
	}

	split := domain.ProductRecord{ID: "p11", Description: "machine assisted learning"}
	if result := Classify(split, rules); !result.Included {
		t.Fatalf("non-consecutive words must not match a phrase, got %v", result.MatchedKeywords)
	}
}

func TestClassifyEmptyRulesetIncludesEverything(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(nil, nil)
	rec := domain.ProductRecord{
		ID:      "p12",
		Tagline: "Enterprise B2B analytics dashboard for developer teams",
		Topics:  []string{"SaaS", "B2B"},
	}

	if result := Classify(rec, rules); !result.Included {
		t.Fatalf("empty ruleset must include everything, got %+v", result)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(DefaultExcludedCategories, DefaultExcludedKeywords)
	rec := domain.ProductRecord{
		ID:          "p13",
		Tagline:     "Security dashboard for enterprise teams",
		Description: "Workflow automation with analytics baked in.",
		Topics:      []string{"Productivity"},
	}

	first := Classify(rec, rules)
	second := Classify(rec, rules)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification changed between calls: %+v vs %+v", first, second)
	}
}

func TestNewRulesetNormalizesInput(t *testing.T) {
	t.Parallel()

	rules := NewRuleset(
		[]string{"  SaaS  ", "", "saas"},
		[]string{"Team", "", "  ", "machine learning"},
	)

	if rules.CategoryCount() != 1 {
		t.Fatalf("expected duplicates and blanks to collapse, got %d categories", rules.CategoryCount())
	}
	if rules.KeywordCount() != 2 {
		t.Fatalf("expected 2 keywords, got %d", rules.KeywordCount())
	}
}
