package models

const ArtifactContentType = "application/zip"

// Artifact is a packaged configuration bundle handed to a physical device.
// It holds live credentials; callers Discard it once it has been sent.
type Artifact struct {
	FileName    string
	DeviceID    string
	ContentType string
	Payload     []byte
}

// Discard zeroes the payload so token material does not linger in memory.
func (a *Artifact) Discard() {
	if a == nil {
		return
	}
	for i := range a.Payload {
		a.Payload[i] = 0
	}
	a.Payload = nil
}
