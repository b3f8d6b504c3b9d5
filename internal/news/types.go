package news

// Label is a single source's opinion about an article.
type Label string

const (
	LabelReal Label = "Real"
	LabelFake Label = "Fake"
)

// Verdict is the final, aggregated label reported to callers.
type Verdict string

const (
	VerdictTrustworthy   Verdict = "Trustworthy"
	VerdictUntrustworthy Verdict = "Untrustworthy"
)

// IsReal reports whether the verdict is the Real-equivalent one.
func (v Verdict) IsReal() bool { return v == VerdictTrustworthy }

// VerdictFor maps a source label onto the verdict vocabulary.
func VerdictFor(l Label) Verdict {
	if l == LabelReal {
		return VerdictTrustworthy
	}
	return VerdictUntrustworthy
}

// SourceClass groups prediction sources for consensus weighting.
type SourceClass string

const (
	ClassHeuristic SourceClass = "heuristic" // always-available deterministic scorer
	ClassLocal     SourceClass = "local"     // classifier models
	ClassSearch    SourceClass = "search"    // web-search verifier
	ClassRemote    SourceClass = "remote"    // external LLM APIs
	ClassOther     SourceClass = "other"
)

// PredictionResult is one source's opinion. Immutable after creation.
type PredictionResult struct {
	SourceID   string         `json:"source_id"`
	Class      SourceClass    `json:"class"`
	Label      Label          `json:"label"`
	Confidence float64        `json:"confidence"` // 0–100, not calibrated across sources
	Reasoning  string         `json:"reasoning"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// AggregateVerdict is the outcome of one analysis request.
type AggregateVerdict struct {
	Label           Verdict            `json:"label"`
	Confidence      float64            `json:"confidence"`
	RealProbability float64            `json:"real_probability"`
	FakeProbability float64            `json:"fake_probability"`
	Summary         string             `json:"summary"`
	Reasoning       string             `json:"reasoning"`
	Contributing    []PredictionResult `json:"contributing"`
	Failed          []SourceFailure    `json:"failed"`
	Details         EnsembleDetails    `json:"ensemble_details"`
}

// EnsembleDetails is the per-request breakdown of who voted and how strongly
// they agreed.
type EnsembleDetails struct {
	APISourcesUsed   int     `json:"api_models_used"`
	LocalSourcesUsed int     `json:"local_models_used"`
	TotalPredictions int     `json:"total_predictions"`
	RealVotes        int     `json:"real_votes"`
	FakeVotes        int     `json:"fake_votes"`
	ConsensusRatio   float64 `json:"consensus_ratio"`
	Mode             string  `json:"mode"`
}
