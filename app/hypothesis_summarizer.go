package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

// HypothesisSummary is the analyst-facing wording of one comparison
type HypothesisSummary struct {
	Null        string `json:"null"`
	Alternative string `json:"alternative"`
	Criterion   string `json:"criterion"`
	PValueLine  string `json:"p_value_line,omitempty"`
	Verdict     string `json:"verdict"`
	Markdown    string `json:"markdown"`
}

// HypothesisSummarizer words comparison outcomes as H0/H1 statements in Russian,
// the language of the HR exports the tool is used with.
type HypothesisSummarizer struct{}

// NewHypothesisSummarizer creates a summarizer
func NewHypothesisSummarizer() *HypothesisSummarizer {
	return &HypothesisSummarizer{}
}

// subject holds the dimension-specific fragments of the wording
type subject struct {
	null, alternative, between string
}

func subjectFor(dim leave.Dimension, ageThreshold int) subject {
	if dim == leave.DimensionAge {
		return subject{
			null: fmt.Sprintf("Работники старше %d лет пропускают в течение года более 2 рабочих дней (work_days) "+
				"по болезни так же часто, как и молодые.", ageThreshold),
			alternative: fmt.Sprintf("Работники старше %d лет пропускают в течение года более 2 рабочих дней (work_days) "+
				"по болезни значимо чаще молодых.", ageThreshold),
			between: fmt.Sprintf("между работниками старше %d лет и молодыми", ageThreshold),
		}
	}
	return subject{
		null:        "Мужчины пропускают в течение года более 2 рабочих дней (work_days) по болезни так же часто, как и женщины.",
		alternative: "Мужчины пропускают в течение года более 2 рабочих дней (work_days) по болезни значимо чаще женщин.",
		between:     "между мужчинами и женщинами",
	}
}

// Summarize words one comparison. Exactly one of outcome and err is expected to be set.
func (s *HypothesisSummarizer) Summarize(dim leave.Dimension, ageThreshold int, alpha float64, outcome *leave.TestOutcome, err error) HypothesisSummary {
	subj := subjectFor(dim, ageThreshold)
	summary := HypothesisSummary{
		Null:        subj.null,
		Alternative: subj.alternative,
		Criterion: fmt.Sprintf("Уровень значимости α = %s. Статистический критерий: t-критерий Стьюдента "+
			"для независимых выборок (поправка Уэлча на неравные дисперсии).", formatFloat(alpha)),
	}

	switch {
	case err != nil:
		summary.Verdict = "Проверка невозможна: " + failureReason(err) + "."
	case outcome == nil:
		summary.Verdict = "Проверка не выполнялась."
	default:
		relation := "≥"
		if outcome.Significant {
			relation = "<"
		}
		summary.PValueLine = fmt.Sprintf("Значение p-value: %s %s α", formatFloat(outcome.PValue), relation)
		if outcome.Significant {
			summary.Verdict = "Гипотеза H0 отвергается в пользу H1. Различия в пропусках по болезни " +
				subj.between + " являются статистически значимыми."
		} else {
			summary.Verdict = "Принимается гипотеза H0. Различия в пропусках по болезни " +
				subj.between + " не являются статистически значимыми."
		}
	}

	summary.Markdown = renderMarkdown(summary)
	return summary
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInsufficientSample):
		return "после фильтрации в одной из групп меньше двух наблюдений, расширьте диапазоны"
	case errors.Is(err, core.ErrDegenerateVariance):
		return "все значения в обеих группах одинаковы, различие средних не определено"
	case errors.Is(err, core.ErrInvalidBounds):
		return "параметры анализа вне допустимого диапазона"
	}
	return "внутренняя ошибка"
}

func renderMarkdown(s HypothesisSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**H0:** %s\n\n", s.Null)
	fmt.Fprintf(&b, "**H1:** %s\n\n", s.Alternative)
	fmt.Fprintf(&b, "%s\n\n", s.Criterion)
	if s.PValueLine != "" {
		fmt.Fprintf(&b, "%s\n\n", s.PValueLine)
	}
	fmt.Fprintf(&b, "*%s*\n", s.Verdict)
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
