package domain

// ClassifierContext names one classification dimension. The set is closed;
// every classifier implementation answers for exactly these contexts.
type ClassifierContext string

const (
	// ContextSentiment rates the emotional tone of the text.
	ContextSentiment ClassifierContext = "sentiment"
	// ContextProfanity flags offensive language.
	ContextProfanity ClassifierContext = "profanity"
	// ContextEmotion picks the dominant emotion expressed.
	ContextEmotion ClassifierContext = "emotion"
)

// Contexts lists all classification contexts in their canonical order. The
// codec emits classifier keys in this order.
var Contexts = []ClassifierContext{ContextSentiment, ContextProfanity, ContextEmotion}

// ClassifierCategory is the label a classifier assigned within one context.
// Categories are closed per context; CategoryNone is the shared sentinel for
// "no category applies" and is never serialized.
type ClassifierCategory string

// CategoryNone is the explicit no-result sentinel.
const CategoryNone ClassifierCategory = "none"

// Sentiment categories.
const (
	CategoryPositive ClassifierCategory = "positive"
	CategoryNegative ClassifierCategory = "negative"
)

// Profanity categories.
const (
	CategorySwear ClassifierCategory = "swear"
	CategorySex   ClassifierCategory = "sex"
)

// Emotion categories.
const (
	CategoryJoy     ClassifierCategory = "joy"
	CategoryAnger   ClassifierCategory = "anger"
	CategoryFear    ClassifierCategory = "fear"
	CategorySadness ClassifierCategory = "sadness"
)

// Classification is one (category, probability) pair.
type Classification struct {
	Category    ClassifierCategory
	Probability float64
}

// ClassifierResult maps each context to its classification. A nil map means
// classification never ran.
type ClassifierResult map[ClassifierContext]Classification

// Category returns the category for a context, or CategoryNone when the
// context is missing or explicitly none.
func (r ClassifierResult) Category(ctx ClassifierContext) ClassifierCategory {
	if r == nil {
		return CategoryNone
	}
	c, ok := r[ctx]
	if !ok {
		return CategoryNone
	}
	return c.Category
}

// Probability returns the probability for a context, 0 when absent.
func (r ClassifierResult) Probability(ctx ClassifierContext) float64 {
	if r == nil {
		return 0
	}
	return r[ctx].Probability
}
