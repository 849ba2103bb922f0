package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"sickstat/domain/core"
	"sickstat/domain/leave"
	"sickstat/internal"
	"sickstat/ports"
)

var _ ports.DatasetReaderPort = (*DataReader)(nil)

var (
	xlsxMagic = []byte("PK\x03\x04")
	utf8BOM   = []byte("\xef\xbb\xbf")
)

// DataReader turns sick-leave exports (CSV or xlsx) into a typed dataset
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader with the given configuration
func NewDataReader(config ReaderConfig) *DataReader {
	if config.Encoding == "" {
		config.Encoding = EncodingWindows1251
	}
	return &DataReader{config: config, logger: internal.DefaultLogger}
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger
	return r
}

// ReadFile reads a CSV or xlsx file from disk
func (r *DataReader) ReadFile(path string) (leave.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return leave.Dataset{}, fmt.Errorf("data file not found: %s", path)
		}
		return leave.Dataset{}, fmt.Errorf("failed to read data file: %w", err)
	}
	return r.ReadBytes(raw, filepath.Base(path))
}

// ReadBytes parses an in-memory upload. name is only used to pick the
// container format and to label the dataset.
func (r *DataReader) ReadBytes(raw []byte, name string) (leave.Dataset, error) {
	start := time.Now()
	kind := detectKind(raw, name)
	r.logger.Debug("[DataReader] reading %s as %s (%d bytes)", name, kind, len(raw))

	var (
		rows []rawRow
		err  error
	)
	switch kind {
	case kindXLSX:
		rows, err = r.readXLSXRows(raw)
	default:
		rows, err = r.readCSVRows(raw)
	}
	if err != nil {
		return leave.Dataset{}, err
	}

	records, err := decodeRows(rows)
	if err != nil {
		return leave.Dataset{}, err
	}

	ds := leave.Dataset{
		Records: records,
		Source:  name,
		Hash:    core.NewDatasetHash(raw),
	}
	r.logger.Info("[DataReader] %s parsed: %d records in %.2fms (hash %s)",
		name, ds.Len(), float64(time.Since(start).Nanoseconds())/1e6, ds.Hash.Short())
	return ds, nil
}

func detectKind(raw []byte, name string) fileKind {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") || bytes.HasPrefix(raw, xlsxMagic) {
		return kindXLSX
	}
	return kindCSV
}

// csvSource wraps raw bytes in the decoder the configured encoding calls for.
// A UTF-8 byte order mark is dropped so it cannot break a quoted first cell.
func (r *DataReader) csvSource(raw []byte) io.Reader {
	utf8Body := bytes.TrimPrefix(raw, utf8BOM)
	switch r.config.Encoding {
	case EncodingUTF8:
		return bytes.NewReader(utf8Body)
	case EncodingAuto:
		if utf8.Valid(raw) && bytes.Contains(raw, []byte(headerLabel)) {
			return bytes.NewReader(utf8Body)
		}
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1251.NewDecoder())
}

// readCSVRows reads every physical row, remembering where each started
func (r *DataReader) readCSVRows(raw []byte) ([]rawRow, error) {
	reader := csv.NewReader(r.csvSource(raw))
	reader.FieldsPerRecord = -1

	var rows []rawRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, core.NewMalformedRecordError(parseErr.StartLine, "", parseErr.Err.Error())
			}
			return nil, fmt.Errorf("failed to read CSV data: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{line: line, cells: cells})
	}
	return rows, nil
}

// readXLSXRows reads the configured sheet (or the first one)
func (r *DataReader) readXLSXRows(raw []byte) ([]rawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewMalformedRecordError(1, "", "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	rows := make([]rawRow, 0, len(cells))
	for i, row := range cells {
		if isBlank(row) {
			continue
		}
		rows = append(rows, rawRow{line: i + 1, cells: row})
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
