package utils

const (
	PARSE_FAILURE = "Failed to parse transaction document"
	DETECT_PANIC  = "Recovered from panic while detecting sandwich"
)

const (
	READ_FAILURE = "Failed to read transaction document"
)
