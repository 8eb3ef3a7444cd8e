package entity

type StartChoice int

const (
	StartNew StartChoice = iota
	StartLoad
)

type Action string

const (
	ActionReveal Action = "reveal"
	ActionFlag   Action = "flag"
	ActionUnflag Action = "unflag"
	ActionSave   Action = "save"
)
