package example

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

type AutonomyLevel string

const (
	AutonomyObserver  AutonomyLevel = "observer"
	AutonomyAutopilot AutonomyLevel = "autopilot"
)

// Label has no constants, so it is not an enum.
type Label string

type Ticket struct {
	Status TicketStatus
	Label  Label
}

type Agent struct {
	AutonomyLevel AutonomyLevel
}

func bad() {
	t := &Ticket{}
	t.Status = "resolved" // want "enum field Status assigned string literal"

	a := Agent{AutonomyLevel: "copilot"} // want "enum field AutonomyLevel assigned string literal"
	_ = a
}

func good() {
	t := &Ticket{}
	t.Status = TicketStatusClosed // OK: using constant
	t.Label = "billing"           // OK: Label is not an enum

	a := Agent{AutonomyLevel: AutonomyAutopilot}
	_ = a
}

func alsoGood() {
	// OK: Variable, not literal
	status := TicketStatusOpen
	t := &Ticket{Status: status}
	_ = t

	// OK: explicit conversion is a deliberate choice
	t.Status = TicketStatus(string(status))
}
