package classify

import (
	"context"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
	"github.com/jonesrussell/north-cloud/enrichment/internal/logger"
)

// Rule assigns a category within one context to a set of trigger keywords.
type Rule struct {
	Context  domain.ClassifierContext  `yaml:"context"`
	Category domain.ClassifierCategory `yaml:"category"`
	Keywords []string                  `yaml:"keywords"`
}

// RuleClassifier matches keyword rules against message text using one
// Aho-Corasick automaton per context. The automatons are built once and are
// safe for concurrent use.
type RuleClassifier struct {
	contexts map[domain.ClassifierContext]*contextMatcher
	log      logger.Logger
}

type contextMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	// category and keyword count per keyword index
	categories []domain.ClassifierCategory
	totals     map[domain.ClassifierCategory]int
}

// NewRuleClassifier compiles rules into per-context matchers. Rules with no
// keywords are dropped.
func NewRuleClassifier(rules []Rule, log logger.Logger) *RuleClassifier {
	contexts := make(map[domain.ClassifierContext]*contextMatcher)

	for _, rule := range rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		cm := contexts[rule.Context]
		if cm == nil {
			cm = &contextMatcher{totals: make(map[domain.ClassifierCategory]int)}
			contexts[rule.Context] = cm
		}
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			cm.keywords = append(cm.keywords, kw)
			cm.categories = append(cm.categories, rule.Category)
			cm.totals[rule.Category]++
		}
	}

	for _, cm := range contexts {
		cm.matcher = ahocorasick.NewStringMatcher(cm.keywords)
	}

	if log != nil {
		log.Info("rule classifier initialized",
			logger.Int("contexts", len(contexts)))
	}
	return &RuleClassifier{contexts: contexts, log: log}
}

// Classify scans the text once per context and picks the category with the
// most distinct keyword hits. Probability is hit coverage over the winning
// category's keyword count. Contexts without any hit carry the none sentinel.
func (rc *RuleClassifier) Classify(_ context.Context, text string) (domain.ClassifierResult, error) {
	result := emptyResult()
	lower := []byte(strings.ToLower(text))

	for _, name := range domain.Contexts {
		cm := rc.contexts[name]
		if cm == nil || cm.matcher == nil {
			continue
		}

		hits := make(map[domain.ClassifierCategory]int)
		for _, idx := range cm.matcher.Match(lower) {
			hits[cm.categories[idx]]++
		}
		if len(hits) == 0 {
			continue
		}

		var best domain.ClassifierCategory
		bestHits := 0
		for cat, n := range hits {
			if n > bestHits || (n == bestHits && cat < best) {
				best, bestHits = cat, n
			}
		}

		result[name] = domain.Classification{
			Category:    best,
			Probability: float64(bestHits) / float64(cm.totals[best]),
		}
	}
	return result, nil
}

// DefaultRules returns the built-in rule set used when no rules are
// configured. The lists are deliberately small; production deployments ship
// their own rules in the config file.
func DefaultRules() []Rule {
	return []Rule{
		{
			Context:  domain.ContextSentiment,
			Category: domain.CategoryPositive,
			Keywords: []string{"great", "love", "awesome", "happy", "excellent", "thank", "congrats", "beautiful"},
		},
		{
			Context:  domain.ContextSentiment,
			Category: domain.CategoryNegative,
			Keywords: []string{"terrible", "hate", "awful", "angry", "worst", "broken", "disaster", "sad"},
		},
		{
			Context:  domain.ContextProfanity,
			Category: domain.CategorySwear,
			Keywords: []string{"damn", "crap", "hell"},
		},
		{
			Context:  domain.ContextEmotion,
			Category: domain.CategoryJoy,
			Keywords: []string{"joy", "excited", "celebrate", "wonderful"},
		},
		{
			Context:  domain.ContextEmotion,
			Category: domain.CategoryAnger,
			Keywords: []string{"furious", "outrage", "rage", "annoyed"},
		},
		{
			Context:  domain.ContextEmotion,
			Category: domain.CategoryFear,
			Keywords: []string{"scared", "afraid", "terrified", "panic"},
		},
		{
			Context:  domain.ContextEmotion,
			Category: domain.CategorySadness,
			Keywords: []string{"grief", "mourning", "heartbroken", "crying"},
		},
	}
}
