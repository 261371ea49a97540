package tui

import "time"

// Layout constants
const (
	// HeaderLines is the title line plus the blank line below it
	HeaderLines = 2
	// FooterLines is the hint line plus the status bar
	FooterLines = 2
	// BorderSize is the space taken by a rounded border on each axis
	BorderSize = 2

	// ModalWidthMargin is the horizontal margin around modals
	ModalWidthMargin = 6
	// ModalHeightMargin is the vertical margin around modals
	ModalHeightMargin = 4

	// FormLabelWidth aligns the form inputs
	FormLabelWidth = 14
	// FormMinInputWidth keeps inputs usable on narrow terminals
	FormMinInputWidth = 20

	// PageSize is the jump of page up and page down in lists
	PageSize = 10

	// MaxFooterMessage truncates status and error messages
	MaxFooterMessage = 100
)

// Timing constants
const (
	// RequestTimeout bounds one backend command started by the editor
	RequestTimeout = 30 * time.Second
	// MessageTimeout clears status messages
	MessageTimeout = 4 * time.Second
	// HistoryLimit caps the entries shown in the history viewer
	HistoryLimit = 200
)
