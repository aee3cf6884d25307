// Package anki exports resolved word records as a CSV file that Anki
// imports as basic front/back notes.
package anki
