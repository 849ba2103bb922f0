package excel

import (
	"fmt"
	"strings"
)

// SourceEncoding selects how CSV bytes are decoded before parsing
type SourceEncoding string

const (
	// EncodingWindows1251 is the legacy Cyrillic codepage the HR exports are written in.
	EncodingWindows1251 SourceEncoding = "windows-1251"
	EncodingUTF8        SourceEncoding = "utf-8"
	// EncodingAuto keeps bytes that are valid UTF-8 and already contain the header, and decodes everything else as windows-1251.
	EncodingAuto SourceEncoding = "auto"
)

// ParseSourceEncoding accepts the common spellings of the supported encodings
func ParseSourceEncoding(s string) (SourceEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows-1251", "cp1251", "win1251":
		return EncodingWindows1251, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "auto", "":
		return EncodingAuto, nil
	}
	return "", fmt.Errorf("unsupported source encoding %q", s)
}

// ReaderConfig holds configuration for the record reader
type ReaderConfig struct {
	Encoding SourceEncoding `json:"encoding"`
	// Sheet is the xlsx sheet to read; empty means the first sheet.
	Sheet string `json:"sheet"`
}

// DefaultReaderConfig returns the defaults matching the HR export format
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Encoding: EncodingWindows1251,
	}
}
