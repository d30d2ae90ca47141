// Package buffer implements the document model the confetti editor renders.
//
// Coordinates are 0-based (Row, GraphemeCol).
// Ranges are half-open selections in document coordinates: [Start, End).
// Every effective mutation bumps Version and records a Change that hosts
// inspect to learn what text was inserted or deleted.
package buffer
