package bot

// InlineButton is a callback-style button; Data comes back through
// HandleCallback untranslated.
type InlineButton struct {
	Text string
	Data string
}

// SendOptions attaches a reply keyboard or inline buttons to an
// outbound message.
type SendOptions struct {
	Keyboard [][]string
	Inline   [][]InlineButton
	OneTime  bool
}

// Messenger is the outbound transport. Calls are fire-and-forget from
// the engine's perspective; implementations preserve per-conversation
// ordering.
type Messenger interface {
	Send(convID, text string, opts *SendOptions)
	SendImage(convID string, png []byte, caption string, opts *SendOptions)
	SendDocument(convID string, doc []byte, filename, caption string)
}
