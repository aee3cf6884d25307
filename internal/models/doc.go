// Package models lists the chat models offered by the configured
// OpenAI-compatible endpoint, so users can pick a value for --model.
package models
