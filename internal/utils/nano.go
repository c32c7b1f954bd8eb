package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Record ids are 32-character alphanumerics so they stay safe in URLs,
// storage keys and file names without escaping.
const nanoidSize = 32

const nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NanoID returns a fresh record id.
func NanoID() string {
	return NanoIDSize(nanoidSize)
}

// NanoIDSize generates an id of the given length; non-positive sizes fall
// back to the default.
func NanoIDSize(size int) string {
	if size <= 0 {
		size = nanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
