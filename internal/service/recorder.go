package service

// Access paths and grant kinds reported to a Recorder.
const (
	AccessPathDirect = "direct"
	AccessPathLink   = "link"

	GrantKindDirect = "direct"
	GrantKindLink   = "link"
)

// Recorder receives access decisions and created grants.
type Recorder interface {
	AccessDecision(path string, allowed bool)
	GrantCreated(kind string)
}

type noopRecorder struct{}

func (noopRecorder) AccessDecision(string, bool) {}
func (noopRecorder) GrantCreated(string)         {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
