// Package mysql implements the outbox Store on MySQL.
//
// Claiming a record for processing is an atomic conditional update
// (PENDING -> PROCESSING by ID), so concurrent scheduler instances cannot
// double-send the same row. Schema returns a CREATE TABLE statement for the
// backing table.
package mysql
