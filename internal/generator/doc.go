// Package generator asks a language model for vocabulary records of words
// that are not yet in the word table.
//
// Two providers are supported: any OpenAI-compatible chat endpoint (DeepSeek
// by default) and Google Gemini. A provider can be wrapped in a circuit
// breaker so that an unreachable service fails fast instead of stalling every
// submission until its timeout.
package generator
