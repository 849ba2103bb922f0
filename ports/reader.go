package ports

import (
	"sickstat/domain/leave"
)

// DatasetReaderPort turns an uploaded or on-disk export into a dataset.
// Implementations either return every record or a MalformedRecordError, never a partial dataset.
type DatasetReaderPort interface {
	ReadBytes(raw []byte, name string) (leave.Dataset, error)
	ReadFile(path string) (leave.Dataset, error)
}
