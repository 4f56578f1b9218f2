package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	channelBufferSize = 16
	frameRate         = 60

	// Critically damped digit slide; settles in about 0.7s.
	springFrequency = 14.0
	springDamping   = 1.0
	settleEpsilon   = 0.01

	// glyphHeight is the number of terminal rows per digit.
	glyphHeight = 5

	// maxDaySlots caps the day group so the board still fits a terminal.
	maxDaySlots = 6

	// boardMinWidth keeps the progress bar usable before the first render.
	boardMinWidth = 20

	frameInterval = time.Second / frameRate
)

// Colors shared by the views.
const (
	digitColor  = "69"
	borderColor = "241"
	labelColor  = "241"
	alertColor  = "196"
	doneColor   = "46"
)
