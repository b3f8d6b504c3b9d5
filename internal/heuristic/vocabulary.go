package heuristic

// Indicator vocabularies. Terms are matched by substring containment against
// the lower-cased scan buffer, so multi-word phrases and word fragments both
// count.
var (
	// TrustIndicators is institutional and official-source language.
	TrustIndicators = []string{
		"official", "confirmed", "announced", "statement", "government", "ministry",
		"department", "agency", "authority", "commission", "reuters", "associated press",
		"pti", "ani", "according to", "sources said", "spokesperson", "press release",
		"verified", "investigation", "report", "study", "research", "data", "statistics",
		"published", "journal", "university",
	}

	// SuspicionIndicators is sensational or conspiratorial language.
	SuspicionIndicators = []string{
		"shocking", "unbelievable", "secret", "conspiracy", "exposed", "you won't believe",
		"leaked", "hidden truth", "they don't want", "breaking exclusive", "viral",
		"must watch", "click here", "miracle cure", "doctors hate", "instant",
		"guaranteed", "shocking revelation", "cover-up", "bombshell", "explosive",
	}

	// ClickbaitIndicators is headline-manipulation phrasing.
	ClickbaitIndicators = []string{
		"you won't believe", "shocking", "incredible", "amazing", "this will blow your mind",
		"number", "list", "reasons why", "hate this trick", "doctors don't want", "secret that",
	}

	// QualityIndicators is evidence and methodology language.
	QualityIndicators = []string{
		"research", "study", "data", "statistics", "expert", "professor", "university",
		"institute", "published", "journal", "peer-reviewed", "methodology", "findings",
		"analysis", "investigation",
	}

	// EmotionalWords are scanned in the content only, not the title.
	EmotionalWords = []string{
		"outrageous", "incredible", "unbelievable", "shocking", "devastating",
	}
)
