// Package cli holds the flag handling and frame endpoint selection shared by
// the encoder and decoder commands.
package cli
