package model

// GamePhase labels the stage of a grading attempt. The setup phase runs the
// validation suite; the check phase tags uploaded reports and retrieval links.
type GamePhase string

const (
	PhaseSetup GamePhase = "setup"
	PhaseCheck GamePhase = "check"
)

// Verdict is the test runner's outcome for one invocation. Only VerdictPass
// commits the session; every other value withholds progress without being an
// error in itself.
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictFail  Verdict = "FAIL"
	VerdictError Verdict = "ERROR"
)
