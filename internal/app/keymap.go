package app

// Key binding constants used in handleKey.
const (
	KeyQuit          = "q"
	KeyQuitUpper     = "Q"
	KeyCtrlC         = "ctrl+c"
	KeyRecord        = "r"
	KeyRecordUpper   = "R"
	KeyWebcam        = "w"
	KeyWebcamUpper   = "W"
	KeyFloating      = "p"
	KeyFloatingUpper = "P"
	KeyDownload      = "d"
	KeyDownloadUpper = "D"
)
