package live

// Status is the coarse session state reported to the UI. Exactly one value
// is active at a time; the strings are the wire values the widget renders.
type Status string

const (
	StatusInitializing     Status = "Initializing"
	StatusConnecting       Status = "Connecting"
	StatusListening        Status = "Listening"
	StatusSpeaking         Status = "Speaking"
	StatusError            Status = "Error"
	StatusConnectionFailed Status = "Connection Failed"
	StatusDisconnected     Status = "Disconnected"
)
