// Package recorder builds verification records and writes them to audit
// storage asynchronously.
package recorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meridian-hq/meridian/pkg/audit"
	"meridian-hq/meridian/pkg/clinical"
	"meridian-hq/meridian/pkg/compliance"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000.
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds.
	WriteTimeout time.Duration

	// MaxMessageLength truncates alert messages before storage.
	// Default: 500.
	MaxMessageLength int
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		AsyncBuffer:      1000,
		WriteTimeout:     5 * time.Second,
		MaxMessageLength: 500,
	}
}

// Recorder writes verification records to audit storage without blocking
// the verification path.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	recordChan chan *audit.VerificationRecord
	done       chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewRecorder creates an audit recorder over the given storage backend and
// starts its background writer.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *audit.VerificationRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record builds a verification record from a completed run, enqueues it
// for async writing, and returns it for downstream use (review intake).
// It returns immediately; a full buffer drops the record with a log line
// rather than blocking verification. Returns nil when recording is
// disabled.
func (r *Recorder) Record(requestID string, patient *clinical.PatientContext, extraction *clinical.StructuredExtraction, result *compliance.VerificationResult, rulesVersion string, duration time.Duration) *audit.VerificationRecord {
	if !r.config.Enabled {
		return nil
	}

	record := r.buildRecord(requestID, patient, extraction, result, rulesVersion, duration)

	select {
	case r.recordChan <- record:
	default:
		r.logger.Warn("audit buffer full, dropping record",
			"record_id", record.ID,
			"request_id", requestID,
		)
	}

	return record
}

// buildRecord assembles the audit entry. Clinical content is hashed, never
// stored.
func (r *Recorder) buildRecord(requestID string, patient *clinical.PatientContext, extraction *clinical.StructuredExtraction, result *compliance.VerificationResult, rulesVersion string, duration time.Duration) *audit.VerificationRecord {
	record := &audit.VerificationRecord{
		ID:           uuid.NewString(),
		RequestID:    requestID,
		DocumentType: extraction.DocumentType,
		RulesVersion: rulesVersion,
		Outcome:      string(result.Status),
		VerifiedTime: result.VerifiedAt,
		RecordedTime: time.Now(),
		Duration:     duration,
	}

	record.PatientRef = HashString(patient.PatientID)
	if data, err := json.Marshal(extraction); err == nil {
		record.ExtractionHash = HashContent(data)
	}

	for _, alert := range result.Alerts {
		record.Alerts = append(record.Alerts, audit.AlertRecord{
			SourceID: alert.SourceID,
			Severity: alert.Severity,
			Message:  truncate(alert.Message, r.config.MaxMessageLength),
			Field:    alert.Field,
		})
		switch alert.Severity {
		case compliance.SeverityCritical:
			record.CriticalCount++
		case compliance.SeverityHigh:
			record.HighCount++
		case compliance.SeverityMedium:
			record.MediumCount++
		case compliance.SeverityLow:
			record.LowCount++
		}
	}

	return record
}

// worker drains the record channel into storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.write(record)
		case <-r.done:
			// Drain remaining records before exit.
			for {
				select {
				case record := <-r.recordChan:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *audit.VerificationRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to write audit record",
			"record_id", record.ID,
			"error", err,
		)
	}
}

// Close flushes pending records and stops the background writer.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
