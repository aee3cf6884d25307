// Package server is the browser interface of wordcard. It serves a single
// page with the student form, the word input and a preview of the deck, and
// posts each action back to the session controller.
package server
