// Package storage provides audit storage backends: SQLite for durable
// single-instance deployments and an in-memory store for tests.
package storage
