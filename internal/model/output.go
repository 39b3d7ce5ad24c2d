package model

import "time"

// NoCodeMessage is reported when a run is requested on an empty buffer
const NoCodeMessage = "No code to execute"

// CodeOutput is the result of a single execution request
type CodeOutput struct {
	Stdout   string `json:"stdout" bson:"stdout"`
	Stderr   string `json:"stderr" bson:"stderr"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`
	ExitCode *int   `json:"exitCode,omitempty" bson:"exitCode,omitempty"`
}

// ExitCodePtr is a helper for building CodeOutput literals
func ExitCodePtr(code int) *int {
	return &code
}

// Succeeded reports whether the run exited with status 0
func (o *CodeOutput) Succeeded() bool {
	return o.ExitCode != nil && *o.ExitCode == 0
}

// Status is the label shown on the output panel
func (o *CodeOutput) Status() string {
	if o.Succeeded() {
		return "Success"
	}
	return "Error"
}

// RunState is the execution trigger state
type RunState string

const (
	RunIdle    RunState = "idle"
	RunRunning RunState = "running"
)

// RunRecord is a persisted execution entry
type RunRecord struct {
	ID            string     `json:"id" bson:"_id"`
	RoomCode      string     `json:"roomCode" bson:"roomCode"`
	ParticipantID string     `json:"participantId" bson:"participantId"`
	Language      Language   `json:"language" bson:"language"`
	Code          string     `json:"code" bson:"code"`
	Output        CodeOutput `json:"output" bson:"output"`
	StartedAt     time.Time  `json:"startedAt" bson:"startedAt"`
	FinishedAt    time.Time  `json:"finishedAt" bson:"finishedAt"`
}

// RunRequest is the request body for POST /api/rooms/{code}/run
type RunRequest struct {
	Code     string   `json:"code"`
	Language Language `json:"language,omitempty"`
}
