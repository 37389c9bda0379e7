// Package diag collects diagnostic records for recovered errors (§7):
// occurrences the pipeline can route around (an unavailable image, a
// degenerate triangle) but must still surface, so a silently-zeroed output
// is never mistaken for a clean run.
package diag

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Gabriellgpc/SSMVtex/ssmverr"
)

// Record is one recovered-error occurrence.
type Record struct {
	ID            uuid.UUID
	Kind          ssmverr.Kind
	Message       string
	TriangleIndex int // -1 if not triangle-scoped
	CameraIndex   int // -1 if not camera-scoped
}

// Log accumulates Records in insertion order. The zero value is ready to
// use; all methods are safe for concurrent use by rating and colouring
// workers fanning out over triangles or atlas rows.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// Add appends a record, minting a fresh ID for it.
func (l *Log) Add(kind ssmverr.Kind, triangleIndex, cameraIndex int, format string, args ...any) {
	rec := Record{
		ID:            uuid.New(),
		Kind:          kind,
		Message:       fmt.Sprintf(format, args...),
		TriangleIndex: triangleIndex,
		CameraIndex:   cameraIndex,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a snapshot copy of the accumulated records.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records accumulated so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// CountByKind tallies records by Kind, for report/summary output.
func (l *Log) CountByKind() map[ssmverr.Kind]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo.CountValuesBy(l.records, func(r Record) ssmverr.Kind { return r.Kind })
}
