package status

import "time"

// BuildPhase represents the outcome of the most recent build attempt
type BuildPhase string

const (
	// BuildPhaseBuilding means a build is currently in progress
	BuildPhaseBuilding BuildPhase = "Building"

	// BuildPhaseComplete means the last build wrote a new database
	BuildPhaseComplete BuildPhase = "Complete"

	// BuildPhaseUpToDate means the last build found the stored database current
	BuildPhaseUpToDate BuildPhase = "UpToDate"

	// BuildPhaseFailed means the last build failed
	BuildPhaseFailed BuildPhase = "Failed"
)

// BuildStatus records what the last build did, so a dataset that never
// becomes ready can be diagnosed after the fact.
type BuildStatus struct {
	// Phase is the outcome of the last attempt
	Phase BuildPhase `json:"phase"`

	// Message provides additional information, usually the error of a failed build
	Message string `json:"message,omitempty"`

	// BuildID identifies the last attempt in logs
	BuildID string `json:"buildId,omitempty"`

	// Reason is the change detector verdict of the last attempt
	Reason string `json:"reason,omitempty"`

	// LastAttempt is the start time of the last attempt
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of failed attempts since the last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// LastSuccessTime is the completion time of the last successful attempt
	LastSuccessTime *time.Time `json:"lastSuccessTime,omitempty"`

	// EntryCount is the number of decorations in the stored database
	EntryCount int `json:"entryCount,omitempty"`

	// DurationMillis is how long the last attempt took
	DurationMillis int64 `json:"durationMillis,omitempty"`
}
