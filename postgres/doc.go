// Package postgres implements the outbox Store on PostgreSQL via lib/pq.
//
// The table name is fixed to email_outbox; apply Schema before first use.
// Claiming a record for processing is an atomic conditional update, the same
// contract as the mysql package.
package postgres
