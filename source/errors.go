package source

import "errors"

var (
	// ErrMissingShowData is returned when show metadata lacks its episode or season.
	ErrMissingShowData = errors.New("missing show data")

	// ErrUnknownSourceType is returned when a manifest names a source type other than file or hls.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrEmptySource is returned when a manifest source has nothing to play.
	ErrEmptySource = errors.New("source has no playable stream")
)
