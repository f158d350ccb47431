package cmi

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// FractionMixed is the share of utterances with any code-mixing.
func (s Stats) FractionMixed() float64 {
	return ratio(float64(s.Mixed), float64(s.Utterances))
}

// FractionNonMixed is the share of utterances without code-mixing.
func (s Stats) FractionNonMixed() float64 {
	return ratio(float64(s.NonMixed), float64(s.Utterances))
}

// AvgCuMixed averages the halved Cu + delta over mixed utterances.
func (s Stats) AvgCuMixed() float64 {
	return ratio(s.CuTotal/2, float64(s.Mixed))
}

// AvgCuTotal averages the halved Cu + delta over all utterances.
func (s Stats) AvgCuTotal() float64 {
	return ratio(s.CuTotal/2, float64(s.Utterances))
}

// AvgSwitchesMixed is the mean number of switch points per mixed utterance.
func (s Stats) AvgSwitchesMixed() float64 {
	return ratio(float64(s.Switches), float64(s.Mixed))
}

// AvgSwitchesTotal is the mean number of switch points per utterance.
func (s Stats) AvgSwitchesTotal() float64 {
	return ratio(float64(s.Switches), float64(s.Utterances))
}

// FractionInterSwitches is the share of utterances preceded by a switch.
func (s Stats) FractionInterSwitches() float64 {
	return ratio(float64(s.InterSwitches), float64(s.Utterances))
}

// TotalTags sums TagTotals.
func (s Stats) TotalTags() int {
	n := 0
	for _, t := range s.TagTotals {
		n += t.Count
	}
	return n
}

// Fraction is the bucket's share of all utterances.
func (b Bucket) Fraction(utterances int) float64 {
	return ratio(float64(b.Count), float64(utterances))
}

// AvgSwitches is the mean number of switch points in the bucket.
func (b Bucket) AvgSwitches() float64 {
	return ratio(float64(b.Switches), float64(b.Count))
}
