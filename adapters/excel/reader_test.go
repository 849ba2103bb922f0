package excel

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"sickstat/domain/core"
	"sickstat/domain/leave"
)

// quotedHeader is how the HR export writes the composite header: one quoted CSV cell.
const quotedHeader = `"Количество больничных дней,""Возраст"",""Пол"""`

func compositeLine(workDays, age, gender string) string {
	return `"` + workDays + `,` + age + `,""` + gender + `"""`
}

func encode1251(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.Windows1251.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func sampleCSV(lines ...string) string {
	return quotedHeader + "\n" + strings.Join(lines, "\n") + "\n"
}

func TestParseComposite(t *testing.T) {
	rec, err := ParseComposite(`5,30,"М"`)
	require.NoError(t, err)
	assert.Equal(t, leave.Record{WorkDays: 5, Age: 30, Gender: leave.GenderMale}, rec)

	rec, err = ParseComposite(`0, 61 ,"Ж"`)
	require.NoError(t, err)
	assert.Equal(t, leave.Record{WorkDays: 0, Age: 61, Gender: leave.GenderFemale}, rec)
}

func TestParseComposite_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"unknown gender", `5,30,"X"`},
		{"unquoted gender", `5,30,М`},
		{"latin M", `5,30,"M"`},
		{"too few fields", `5,30`},
		{"too many fields", `5,30,"М",1`},
		{"non-integer work days", `five,30,"М"`},
		{"fractional age", `5,30.5,"Ж"`},
		{"negative work days", `-1,30,"Ж"`},
		{"zero age", `5,0,"Ж"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseComposite(tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestReadBytes_Windows1251(t *testing.T) {
	raw := encode1251(t, sampleCSV(
		compositeLine("5", "39", "Ж"),
		compositeLine("3", "54", "М"),
		compositeLine("0", "26", "М"),
	))

	ds, err := NewDataReader(DefaultReaderConfig()).ReadBytes(raw, "leave.csv")
	require.NoError(t, err)

	assert.Equal(t, []leave.Record{
		{WorkDays: 5, Age: 39, Gender: leave.GenderFemale},
		{WorkDays: 3, Age: 54, Gender: leave.GenderMale},
		{WorkDays: 0, Age: 26, Gender: leave.GenderMale},
	}, ds.Records)
	assert.Equal(t, "leave.csv", ds.Source)
	assert.Equal(t, core.NewDatasetHash(raw), ds.Hash)
}

func TestReadBytes_ExtraColumnsIgnored(t *testing.T) {
	csv := "id," + quotedHeader + ",note\n" +
		"1," + compositeLine("2", "40", "М") + ",ok\n"
	raw := encode1251(t, csv)

	ds, err := NewDataReader(DefaultReaderConfig()).ReadBytes(raw, "leave.csv")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, leave.Record{WorkDays: 2, Age: 40, Gender: leave.GenderMale}, ds.Records[0])
}

func TestReadBytes_EmptyDataset(t *testing.T) {
	raw := encode1251(t, quotedHeader+"\n")

	ds, err := NewDataReader(DefaultReaderConfig()).ReadBytes(raw, "empty.csv")
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestReadBytes_MalformedRowStopsParse(t *testing.T) {
	raw := encode1251(t, sampleCSV(
		compositeLine("5", "39", "Ж"),
		compositeLine("5", "30", "X"),
		compositeLine("1", "22", "М"),
	))

	_, err := NewDataReader(DefaultReaderConfig()).ReadBytes(raw, "bad.csv")
	require.Error(t, err)

	var mre *core.MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 3, mre.Line)
	assert.Equal(t, `5,30,"X"`, mre.Value)
}

func TestReadBytes_MissingCompositeColumn(t *testing.T) {
	raw := encode1251(t, "a,b,c\n1,2,3\n")

	_, err := NewDataReader(DefaultReaderConfig()).ReadBytes(raw, "other.csv")
	assert.True(t, core.IsMalformedRecordError(err))
}

func TestReadBytes_NoInput(t *testing.T) {
	_, err := NewDataReader(DefaultReaderConfig()).ReadBytes(nil, "nothing.csv")
	assert.True(t, core.IsMalformedRecordError(err))
}

func TestReadBytes_UTF8Modes(t *testing.T) {
	raw := []byte(sampleCSV(compositeLine("4", "33", "М")))

	utf, err := NewDataReader(ReaderConfig{Encoding: EncodingUTF8}).ReadBytes(raw, "utf.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, utf.Len())

	auto, err := NewDataReader(ReaderConfig{Encoding: EncodingAuto}).ReadBytes(raw, "utf.csv")
	require.NoError(t, err)
	assert.Equal(t, utf.Records, auto.Records)

	legacy := encode1251(t, string(raw))
	autoLegacy, err := NewDataReader(ReaderConfig{Encoding: EncodingAuto}).ReadBytes(legacy, "cp.csv")
	require.NoError(t, err)
	assert.Equal(t, utf.Records, autoLegacy.Records)

	// UTF-8 bytes forced through the legacy decoder no longer match the header.
	_, err = NewDataReader(ReaderConfig{Encoding: EncodingWindows1251}).ReadBytes(raw, "utf.csv")
	assert.True(t, core.IsMalformedRecordError(err))
}

func TestReadBytes_AutoKeepsQuotedUTF8Header(t *testing.T) {
	// The export quotes the composite header cell, doubling its inner quotes.
	raw := []byte("\ufeff" + sampleCSV(compositeLine("2", "41", "Ж"), compositeLine("0", "29", "М")))
	require.Contains(t, string(raw), `""Возраст""`)

	ds, err := NewDataReader(ReaderConfig{Encoding: EncodingAuto}).ReadBytes(raw, "utf-bom.csv")
	require.NoError(t, err)
	assert.Equal(t, []leave.Record{
		{WorkDays: 2, Age: 41, Gender: leave.GenderFemale},
		{WorkDays: 0, Age: 29, Gender: leave.GenderMale},
	}, ds.Records)
}

func TestReadBytes_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", CompositeHeader))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", `7,45,"Ж"`))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", `1,23,"М"`))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := NewDataReader(DefaultReaderConfig()).ReadBytes(buf.Bytes(), "leave.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []leave.Record{
		{WorkDays: 7, Age: 45, Gender: leave.GenderFemale},
		{WorkDays: 1, Age: 23, Gender: leave.GenderMale},
	}, ds.Records)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leave.csv")
	require.NoError(t, os.WriteFile(path, encode1251(t, sampleCSV(compositeLine("2", "50", "Ж"))), 0o644))

	ds, err := NewDataReader(DefaultReaderConfig()).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, "leave.csv", ds.Source)

	_, err = NewDataReader(DefaultReaderConfig()).ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestParseSourceEncoding(t *testing.T) {
	enc, err := ParseSourceEncoding("CP1251")
	require.NoError(t, err)
	assert.Equal(t, EncodingWindows1251, enc)

	_, err = ParseSourceEncoding("koi8-r")
	assert.Error(t, err)
}
