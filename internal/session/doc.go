// Package session drives one teacher's workflow: pick a student, enter the
// words they got wrong, then preview and download the card deck.
//
// A Session carries the student identity and the working list of records.
// The Controller resolves submitted words against the word table, corrects
// likely typos, generates unknown words and keeps the print history. Sessions
// of the web surface are kept in a Store with expiry.
package session
