package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sickstat/domain/leave"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := testConfig()
	a, err := NewApp(testService(cfg), cfg, quietLogger())
	require.NoError(t, err)
	return a
}

func TestApp_Index(t *testing.T) {
	rec := serve(newTestApp(t).Handler(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/report"`)
	assert.Contains(t, body, `placeholder="35"`)
	assert.NotContains(t, body, "Загружен файл")
}

func TestApp_IndexShowsPreloadedDataset(t *testing.T) {
	a := newTestApp(t).WithDataset(leave.Dataset{Source: "hr.csv", Records: []leave.Record{
		{WorkDays: 2, Age: 30, Gender: leave.GenderMale},
		{WorkDays: 4, Age: 50, Gender: leave.GenderFemale},
	}})

	rec := serve(a.Handler(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hr.csv")
}

func TestApp_Report(t *testing.T) {
	req := uploadRequest(t, "/report", "staff.csv", staffCSV(t), map[string]string{fieldAgeThreshold: "40"})
	rec := serve(newTestApp(t).Handler(), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := rec.Body.String()
	assert.Contains(t, body, "Мужчины и женщины")
	assert.Contains(t, body, "Работники старше 40 лет и молодые")
	assert.Contains(t, body, "<strong>H0:</strong>")
	assert.Contains(t, body, "<iframe")
	assert.Contains(t, body, "echarts")
}

func TestApp_ReportUsesPreloadedDatasetWithoutUpload(t *testing.T) {
	records := []leave.Record{
		{WorkDays: 0, Age: 25, Gender: leave.GenderMale}, {WorkDays: 1, Age: 31, Gender: leave.GenderMale},
		{WorkDays: 2, Age: 36, Gender: leave.GenderMale}, {WorkDays: 6, Age: 33, Gender: leave.GenderFemale},
		{WorkDays: 9, Age: 60, Gender: leave.GenderFemale},
	}
	a := newTestApp(t).WithDataset(leave.Dataset{Source: "hr.csv", Records: records})

	form := url.Values{fieldAlpha: {"0.1"}}
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(a.Handler(), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "α = 0.1")
}

func TestApp_ReportErrorsRenderForm(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		fields     map[string]string
		wantStatus int
	}{
		{"no upload and nothing preloaded", nil, nil, http.StatusBadRequest},
		{"threshold outside ages", staffCSV(t), map[string]string{fieldAgeThreshold: "10"}, http.StatusBadRequest},
		{"not the expected export", []byte("a,b,c\n1,2,3\n"), nil, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := uploadRequest(t, "/report", "staff.csv", tt.content, tt.fields)
			rec := serve(newTestApp(t).Handler(), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="error"`)
			assert.Contains(t, rec.Body.String(), `action="/report"`)
		})
	}
}

func TestBinLabels(t *testing.T) {
	labels := binLabels(leave.Histogram{Edges: []float64{0, 2.5, 5}, Counts: []int{1, 2}})
	assert.Equal(t, []string{"[0, 2.5)", "[2.5, 5]"}, labels)
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown("**H0:** text\n\n*verdict*\n"))
	assert.Contains(t, out, "<strong>H0:</strong> text")
	assert.Contains(t, out, "<em>verdict</em>")
}
