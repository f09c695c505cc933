package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
)

type fakeNotifier struct {
	samples []models.TrendSample
	alert   bool
	err     error
}

func (n *fakeNotifier) Notify(sample models.TrendSample) (*models.Alert, error) {
	n.samples = append(n.samples, sample)
	if n.err != nil {
		return nil, n.err
	}
	if !n.alert {
		return nil, nil
	}
	return &models.Alert{LocationID: sample.LocationID, GateID: sample.GateID}, nil
}

func density(v float64) *float64 { return &v }

func TestIngestValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewIngestService(f.readings, nil, 3, time.Second)

	testCases := []struct {
		name  string
		req   models.IngestRequest
		field string
	}{
		{"missing location", models.IngestRequest{GateID: "G1", Density: density(1)}, "locationId"},
		{"missing gate", models.IngestRequest{LocationID: "stadium1", GateID: "  ", Density: density(1)}, "gateId"},
		{"missing density", models.IngestRequest{LocationID: "stadium1", GateID: "G1"}, "density"},
		{"nan density", models.IngestRequest{LocationID: "stadium1", GateID: "G1", Density: density(math.NaN())}, "density"},
		{"bad timestamp", models.IngestRequest{LocationID: "stadium1", GateID: "G1", Density: density(1), Timestamp: "yesterday"}, "timestamp"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tc.req)
			e, ok := apperr.As(err)
			if !ok || e.Kind != apperr.KindInvalidInput {
				t.Fatalf("Expected InvalidInput, got %v", err)
			}
			if e.ID != tc.field {
				t.Errorf("Expected offending field %s, got %s", tc.field, e.ID)
			}
		})
	}
}

func TestIngestStoresAndClassifies(t *testing.T) {
	f := newFixture(t)
	notifier := &fakeNotifier{alert: true}
	svc := NewIngestService(f.readings, notifier, 3, time.Second)
	svc.now = func() time.Time { return t0 }

	if _, err := svc.Ingest(context.Background(), models.IngestRequest{LocationID: "stadium1", GateID: "G1", Density: density(7)}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	svc.now = func() time.Time { return t0.Add(5 * time.Second) }

	resp, err := svc.Ingest(context.Background(), models.IngestRequest{LocationID: " stadium1 ", GateID: "G1", Density: density(9.5)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Reading.ID == 0 || resp.Reading.LocationID != "stadium1" || !resp.Reading.Timestamp.Equal(t0.Add(5*time.Second)) {
		t.Errorf("Unexpected stored reading: %+v", resp.Reading)
	}
	if resp.Status == nil || resp.Status.Tag != models.TagStampede {
		t.Errorf("Expected Stampede Risk after a 2.5 jump, got %+v", resp.Status)
	}
	if !resp.Alerted {
		t.Error("Expected alerted to be reported")
	}

	last := notifier.samples[len(notifier.samples)-1]
	if last.Latest != 9.5 || last.Previous != 7 {
		t.Errorf("Unexpected sample passed to notifier: %+v", last)
	}
}

func TestIngestBackfillTimestamp(t *testing.T) {
	f := newFixture(t)
	svc := NewIngestService(f.readings, nil, 3, time.Second)

	resp, err := svc.Ingest(context.Background(), models.IngestRequest{
		LocationID: "metro1", GateID: "G3", Density: density(4), Timestamp: "2024-05-01T10:00:00+02:00",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !resp.Reading.Timestamp.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected timestamp %v", resp.Reading.Timestamp)
	}
}

func TestIngestAlertFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	svc := NewIngestService(f.readings, &fakeNotifier{err: errors.New("nats down")}, 3, time.Second)

	resp, err := svc.Ingest(context.Background(), models.IngestRequest{LocationID: "mall1", GateID: "G1", Density: density(9.9)})
	if err != nil {
		t.Fatalf("Expected ingestion to succeed, got %v", err)
	}
	if resp.Alerted {
		t.Error("Expected alerted=false when publishing failed")
	}
}

func TestIngestStoreFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewIngestService(f.readings, nil, 3, time.Second)
	f.db.Close()

	_, err := svc.Ingest(context.Background(), models.IngestRequest{LocationID: "mall1", GateID: "G1", Density: density(1)})
	assertKind(t, err, apperr.KindCollaboratorFailure)
}
