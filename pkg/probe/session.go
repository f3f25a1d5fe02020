package probe

// Session is the reporting gate controlled by the host.
type Session uint8

const (
	Idle Session = iota
	Reporting
)

func (s Session) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// Commands and their acknowledgements.
const (
	CommandConnect = "connect"
	CommandStop    = "stop"

	AckConnect = "Connection confirmed and started reading vals"
	AckStop    = "STOP"
)

// connect starts reporting. Repeating it only repeats the acknowledgement.
func (p *Probe) connect([]string) {
	p.acknowledge(AckConnect)
	p.state.Session = Reporting
}

// stop ends reporting. Repeating it only repeats the acknowledgement.
func (p *Probe) stop([]string) {
	p.acknowledge(AckStop)
	p.state.Session = Idle
}

func (p *Probe) acknowledge(msg string) {
	p.line = append(append(p.line[:0], msg...), LineEnding...)
	_, _ = p.out.Write(p.line)
}
