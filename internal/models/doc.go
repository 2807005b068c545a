// Package models defines the persisted domain models for nbang.
//
// A Gathering is owned by a User and groups the Participants who share the
// cost of its Rounds. Each Round is paid by one participant and may exclude
// some participants through Exclusions. A ShareLink grants read-only access
// to a gathering's settlement for a limited time.
//
// Relationships are expressed with ID strings rather than pointers. Monetary
// amounts use decimal.Decimal and are never stored as floating point.
//
// Computed settlements (balances and transfers) are not models: they are
// produced fresh by package calculator on every request.
package models
