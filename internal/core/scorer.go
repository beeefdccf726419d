package core

// orderedSet keeps first-seen insertion order while rejecting duplicates.
// Attack vectors, similar attacks and prevention tips all need this.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(item string) {
	if item == "" {
		return
	}
	if _, dup := s.seen[item]; dup {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

func (s *orderedSet) values() []string {
	if s.items == nil {
		return []string{}
	}
	return s.items
}

// Score applies the weighted rule table to a feature record and derives the
// verdict. It is pure and total: the all-default record yields a valid
// low-risk verdict rather than an error.
func Score(features *FeatureRecord, contentType ContentType) *Verdict {
	verdict := &Verdict{
		Explanations: []string{},
		RiskFactors:  make([]RiskFactor, 0, len(ruleTable)),
	}

	vectors := newOrderedSet()
	similar := newOrderedSet()
	tips := newOrderedSet()

	score := 0
	for _, rule := range ruleTable {
		hits := rule.hits(features, contentType)
		detected := hits > 0

		verdict.RiskFactors = append(verdict.RiskFactors, RiskFactor{
			Name:     rule.name,
			Weight:   rule.weight,
			Detected: detected,
		})
		if !detected {
			continue
		}

		score += rule.weight * hits
		verdict.Explanations = append(verdict.Explanations, rule.explain(hits))
		vectors.add(rule.vector)
		similar.add(rule.similar)
		tips.add(rule.tip)
	}

	for _, tip := range typePreventionTips[contentType] {
		tips.add(tip)
	}
	for _, tip := range generalPreventionTips {
		tips.add(tip)
	}

	verdict.PhishingScore = clampInt(score, 0, 100)
	verdict.RiskLevel = riskLevelFor(verdict.PhishingScore)
	verdict.Confidence = confidenceFor(len(verdict.Explanations))
	verdict.ThreatCategory = threatCategoryFor(features)
	verdict.AttackVectors = vectors.values()
	verdict.SimilarAttacks = similar.values()
	verdict.PreventionTips = tips.values()

	return verdict
}

// Analyze runs feature extraction and scoring in one call.
func Analyze(content string, contentType ContentType) *Verdict {
	return Score(ExtractFeatures(content, contentType), contentType)
}

// riskLevelFor maps the normalized score onto the four risk bands.
// Boundaries are inclusive on the lower bound.
func riskLevelFor(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLevelCritical
	case score >= 50:
		return RiskLevelHigh
	case score >= 25:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// confidenceFor grows with the number of fired rules, capped at 98.
func confidenceFor(firedRules int) int {
	confidence := 65 + 4*firedRules
	if confidence > 98 {
		return 98
	}
	return confidence
}

func threatCategoryFor(features *FeatureRecord) string {
	for _, entry := range threatCategoryPriority {
		if entry.applies(features) {
			return entry.category
		}
	}
	return defaultThreatCategory
}
