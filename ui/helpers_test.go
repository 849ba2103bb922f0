package ui

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"sickstat/adapters/excel"
	"sickstat/adapters/stats/senses"
	"sickstat/app"
	"sickstat/internal"
	"sickstat/internal/config"
)

const header = `"Количество больничных дней,""Возраст"",""Пол"""`

func row(days, age, gender string) string {
	return `"` + days + `,` + age + `,""` + gender + `"""`
}

// staffCSV is a small cp1251 export: five men and five women
func staffCSV(t *testing.T) []byte {
	t.Helper()
	lines := []string{
		header,
		row("0", "25", "М"), row("1", "31", "М"), row("2", "36", "М"), row("3", "40", "М"), row("10", "45", "М"),
		row("5", "28", "Ж"), row("6", "33", "Ж"), row("7", "47", "Ж"), row("8", "52", "Ж"), row("9", "60", "Ж"),
	}
	out, err := charmap.Windows1251.NewEncoder().String(strings.Join(lines, "\r\n") + "\r\n")
	require.NoError(t, err)
	return []byte(out)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.GinMode = "test"
	return cfg
}

func testService(cfg *config.Config) *app.AnalysisService {
	logger := internal.NewLoggerWithOutput(internal.LogLevelError, io.Discard)
	reader := excel.NewDataReader(cfg.ReaderConfig()).WithLogger(logger)
	return app.NewAnalysisService(reader, senses.NewWelchTTestSense(), cfg.Analysis).WithLogger(logger)
}

func quietLogger() *internal.Logger {
	return internal.NewLoggerWithOutput(internal.LogLevelError, io.Discard)
}

// uploadRequest builds a multipart request with an optional file and form fields
func uploadRequest(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if content != nil {
		part, err := w.CreateFormFile(fieldFile, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
