// Package spell suggests known words for likely typos using the
// Ratcliff/Obershelp similarity ratio.
package spell
