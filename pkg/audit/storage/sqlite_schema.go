package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
const Schema = `
-- Verification audit records
CREATE TABLE IF NOT EXISTS verifications (
    id TEXT PRIMARY KEY,
    request_id TEXT,

    patient_ref TEXT NOT NULL,
    document_type TEXT NOT NULL,
    extraction_hash TEXT NOT NULL,
    rules_version TEXT,

    outcome TEXT NOT NULL,
    alerts TEXT,

    critical_count INTEGER NOT NULL DEFAULT 0,
    high_count INTEGER NOT NULL DEFAULT 0,
    medium_count INTEGER NOT NULL DEFAULT 0,
    low_count INTEGER NOT NULL DEFAULT 0,

    verified_time TIMESTAMP NOT NULL,
    recorded_time TIMESTAMP NOT NULL,
    duration_ns INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_verifications_verified_time ON verifications(verified_time);
CREATE INDEX IF NOT EXISTS idx_verifications_outcome ON verifications(outcome);
CREATE INDEX IF NOT EXISTS idx_verifications_patient_ref ON verifications(patient_ref);
CREATE INDEX IF NOT EXISTS idx_verifications_document_type ON verifications(document_type);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`
