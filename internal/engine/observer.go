package engine

// StepEvent describes one handler dispatch.
type StepEvent struct {
	Seq     int64  `json:"seq"`
	State   State  `json:"state"`
	Pointer int    `json:"pointer"`
	Char    string `json:"char"`
}

// Observer is notified as a parse runs. Step is called before the handler
// for that step executes. End is called exactly once per Parse, with either
// the output or the error Parse is about to return.
type Observer interface {
	Begin(input string)
	Step(ev StepEvent)
	End(output string, err error)
}
