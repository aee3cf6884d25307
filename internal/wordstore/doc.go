// Package wordstore keeps the persisted vocabulary table. Records are unique
// by lowercase word; writing a word that already exists replaces it.
package wordstore
