package domain

import (
	"errors"
	"testing"
)

// TestDocumentStatusForwardOnly verifies status only advances forward
// through the pipeline and never leaves a terminal state.
func TestDocumentStatusForwardOnly(t *testing.T) {
	testCases := []struct {
		name    string
		from    DocumentStatus
		to      DocumentStatus
		wantErr bool
	}{
		{name: "pending to extracted", from: DocumentStatusPending, to: DocumentStatusExtracted},
		{name: "extracted to persisted", from: DocumentStatusExtracted, to: DocumentStatusPersisted},
		{name: "pending to failed", from: DocumentStatusPending, to: DocumentStatusFailed},
		{name: "extracted to failed", from: DocumentStatusExtracted, to: DocumentStatusFailed},
		{name: "extracted to pending", from: DocumentStatusExtracted, to: DocumentStatusPending, wantErr: true},
		{name: "persisted to extracted", from: DocumentStatusPersisted, to: DocumentStatusExtracted, wantErr: true},
		{name: "persisted to failed", from: DocumentStatusPersisted, to: DocumentStatusFailed, wantErr: true},
		{name: "failed to persisted", from: DocumentStatusFailed, to: DocumentStatusPersisted, wantErr: true},
		{name: "pending to pending", from: DocumentStatusPending, to: DocumentStatusPending, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &Document{Status: tc.from}
			err := doc.Advance(tc.to)
			if tc.wantErr {
				if !errors.Is(err, ErrBackwardTransition) {
					t.Errorf("expected ErrBackwardTransition, got %v", err)
				}
				if doc.Status != tc.from {
					t.Errorf("status changed on rejected transition: %s", doc.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Status != tc.to {
				t.Errorf("status = %s, want %s", doc.Status, tc.to)
			}
		})
	}
}

// TestDocumentFailTerminal verifies Fail is a no-op on terminal documents.
func TestDocumentFailTerminal(t *testing.T) {
	doc := &Document{Status: DocumentStatusPersisted}
	doc.Fail(errors.New("late failure"))
	if doc.Status != DocumentStatusPersisted {
		t.Errorf("Fail moved a persisted document to %s", doc.Status)
	}
	if doc.Error != "" {
		t.Errorf("Fail recorded error on terminal document: %q", doc.Error)
	}

	doc = &Document{Status: DocumentStatusExtracted}
	doc.Fail(errors.New("store rejected"))
	if doc.Status != DocumentStatusFailed {
		t.Errorf("status = %s, want failed", doc.Status)
	}
	if doc.Error != "store rejected" {
		t.Errorf("error detail = %q", doc.Error)
	}
}

// TestMetadataMapRoundTrip verifies the driver serialization of metadata.
func TestMetadataMapRoundTrip(t *testing.T) {
	m := MetadataMap{"title": "Quarterly Report", "rows": "12"}
	value, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded MetadataMap
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if decoded["title"] != "Quarterly Report" || decoded["rows"] != "12" {
		t.Errorf("round trip mismatch: %#v", decoded)
	}

	var fromNil MetadataMap
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if fromNil == nil {
		t.Error("Scan(nil) should produce an empty map")
	}
}

// TestCapabilitiesFor verifies the fixed per-target capability flags.
func TestCapabilitiesFor(t *testing.T) {
	if !CapabilitiesFor(TargetPostgres).Transactional {
		t.Error("postgres should be transactional")
	}
	if !CapabilitiesFor(TargetElasticsearch).FullTextSearch {
		t.Error("elasticsearch should support full-text search")
	}
	if CapabilitiesFor(TargetMongoDB).Transactional {
		t.Error("mongodb target should not advertise transactions")
	}
	if caps := CapabilitiesFor("unknown"); caps != (Capabilities{}) {
		t.Errorf("unknown target should have zero capabilities, got %#v", caps)
	}
}
