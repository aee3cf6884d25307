// Package processor wires the word table, speller, generator, renderer and
// print history together and runs them either as the web interface or over
// a word file in batch mode.
package processor
