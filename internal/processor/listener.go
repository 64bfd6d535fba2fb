package processor

import "github.com/publicart/massimport/internal/entities"

// Listener receives structured progress events from the processor.
// Observability hangs off these events instead of print calls inlined
// in the control flow; the reporting layer and the verbose console
// output both subscribe here.
type Listener interface {
	RecordStarted(index int, rec entities.CanonicalRecord)
	RecordCompleted(index int, result entities.BatchResult)
	BatchCompleted(batch entities.Batch)
}

// NopListener discards all events.
type NopListener struct{}

func (NopListener) RecordStarted(int, entities.CanonicalRecord) {}
func (NopListener) RecordCompleted(int, entities.BatchResult)   {}
func (NopListener) BatchCompleted(entities.Batch)               {}
