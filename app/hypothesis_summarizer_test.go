package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

func TestSummarize_Significant(t *testing.T) {
	outcome := &leave.TestOutcome{Statistic: 3.1, PValue: 0.004, Threshold: 0.05, Significant: true}

	s := NewHypothesisSummarizer().Summarize(leave.DimensionGender, 35, 0.05, outcome, nil)

	assert.Contains(t, s.Null, "так же часто, как и женщины")
	assert.Contains(t, s.Criterion, "α = 0.05")
	assert.Equal(t, "Значение p-value: 0.004 < α", s.PValueLine)
	assert.Contains(t, s.Verdict, "отвергается в пользу H1")
	assert.Contains(t, s.Verdict, "между мужчинами и женщинами являются")
	assert.Contains(t, s.Markdown, "**H0:**")
	assert.Contains(t, s.Markdown, "**H1:**")
}

func TestSummarize_NotSignificantAge(t *testing.T) {
	outcome := &leave.TestOutcome{Statistic: -0.4, PValue: 0.7, Threshold: 0.05}

	s := NewHypothesisSummarizer().Summarize(leave.DimensionAge, 42, 0.05, outcome, nil)

	assert.Contains(t, s.Alternative, "старше 42 лет")
	assert.Equal(t, "Значение p-value: 0.7 ≥ α", s.PValueLine)
	assert.Contains(t, s.Verdict, "Принимается гипотеза H0")
	assert.Contains(t, s.Verdict, "не являются статистически значимыми")
}

func TestSummarize_ErrorsNeverLookLikeVerdicts(t *testing.T) {
	summarizer := NewHypothesisSummarizer()

	insufficient := summarizer.Summarize(leave.DimensionGender, 35, 0.05, nil, core.NewInsufficientSampleError("men", 1))
	degenerate := summarizer.Summarize(leave.DimensionGender, 35, 0.05, nil, core.NewDegenerateVarianceError("men", "women"))

	for _, s := range []HypothesisSummary{insufficient, degenerate} {
		assert.Empty(t, s.PValueLine)
		assert.NotContains(t, s.Verdict, "H0")
		assert.Contains(t, s.Verdict, "Проверка невозможна")
	}
	assert.NotEqual(t, insufficient.Verdict, degenerate.Verdict)
}
