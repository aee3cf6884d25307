// Package render turns vocabulary records into a printable A4 card deck.
//
// Every card has a cloze face (Chinese meaning and the example sentence with
// the word blanked out) and an answer face (word, phonetic, collocation and
// the English half of the example). Cards are laid out five to a page. The
// print variant adds a shuffled review strip under each page and opens the
// browser print dialog on load; the preview variant shows a printing tip
// instead.
package render
