package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// ReasonNetwork marks any failed fetch against the content API.
	ReasonNetwork ReasonCode = "network"
	// ReasonConfig marks a missing credential for the guidance API.
	ReasonConfig ReasonCode = "config"
	// ReasonService marks a failed or malformed generative response.
	ReasonService ReasonCode = "service"
	// ReasonPlayback marks an audio resource that failed to load or play.
	ReasonPlayback ReasonCode = "playback"

	ReasonInvalidInput ReasonCode = "invalid_input"
	ReasonStorage      ReasonCode = "storage"
)
