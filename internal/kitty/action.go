package kitty

// Action is one graphics protocol action. The set of implementations is closed:
// Transmit, TransmitAndDisplay, Query, Put, FrameLoad, FrameCompose,
// FrameControl and Delete.
type Action interface {
	// Key returns the value of the protocol "a" key.
	Key() byte
	isAction()
}

// TransmitAndDisplay transmits image data and displays it in one command.
type TransmitAndDisplay struct {
	Transmit Transmit
	Put      Put
}

// appendParams writes the placement id once, from the Put half. A placement
// set only on the Transmit half is carried over.
func (a TransmitAndDisplay) appendParams(b []byte) []byte {
	t, p := a.Transmit, a.Put
	if p.Placement == 0 {
		p.Placement = t.Placement
	}
	t.Placement = 0
	b = t.appendParams(b)
	return p.appendParams(b)
}

// Query asks the terminal whether it supports the graphics protocol.
type Query struct{}

func (Transmit) Key() byte           { return 't' }
func (TransmitAndDisplay) Key() byte { return 'T' }
func (Query) Key() byte              { return 'q' }
func (Put) Key() byte                { return 'p' }
func (FrameLoad) Key() byte          { return 'f' }
func (FrameCompose) Key() byte       { return 'c' }
func (FrameControl) Key() byte       { return 'a' }
func (Delete) Key() byte             { return 'd' }

func (Transmit) isAction()           {}
func (TransmitAndDisplay) isAction() {}
func (Query) isAction()              {}
func (Put) isAction()                {}
func (FrameLoad) isAction()          {}
func (FrameCompose) isAction()       {}
func (FrameControl) isAction()       {}
func (Delete) isAction()             {}

// AppendAction appends "a=<key>," followed by the action's parameters to b.
func AppendAction(b []byte, a Action) []byte {
	b = append(b, 'a', '=', a.Key(), ',')
	switch a := a.(type) {
	case Transmit:
		return a.appendParams(b)
	case TransmitAndDisplay:
		return a.appendParams(b)
	case Query:
		return b
	case Put:
		return a.appendParams(b)
	case FrameLoad:
		return a.appendParams(b)
	case FrameCompose:
		return a.appendParams(b)
	case FrameControl:
		return a.appendParams(b)
	case Delete:
		return a.appendParams(b)
	default:
		return b
	}
}

// EncodeAction returns the serialized form of a.
func EncodeAction(a Action) string {
	return string(AppendAction(nil, a))
}
