package bot

import (
	"museumbot/internal/domain/models"
)

// State tags are internal and language-agnostic. Transitions are
// decided on these tags and on canonical option ids, never on
// translated button text.
type State string

const (
	StateInit          State = "init"
	StateMainMenu      State = "main_menu"
	StateAwaitTicket   State = "cancel_await_ticket"
	StateAdminMuseum   State = "admin_await_museum"
	StateAdminPassword State = "admin_await_password"
	StateAdminMenu     State = "admin_menu"

	StateChooseSearch    State = "choose_search_method"
	StateChooseLocation  State = "choose_location"
	StateChooseMuseum    State = "choose_museum"
	StateConfirmMuseum   State = "confirm_museum"
	StateChooseDate      State = "choose_date"
	StateChooseSession   State = "choose_session"
	StateEnterSeats      State = "enter_seat_count"
	StateEnterVisitor    State = "enter_visitor_name"
	StateEnterVisitorAge State = "enter_visitor_age"
	StateEnterChildren   State = "enter_children"
	StateEnterMobile     State = "enter_mobile"
	StateAwaitCode       State = "await_code"
	StateAwaitPayment    State = "await_payment"
)

// Session is the per-conversation booking progress record. It is
// mutated only by the engine processing that conversation's own
// events, which the transport delivers serially.
type Session struct {
	ConvID   string
	Language string
	LangCode string
	State    State

	SelectedMuseum string
	Museum         string
	Date           string
	SessionSlot    string
	Seats          int
	Visitors       []models.Visitor
	CurrentVisitor int
	ChildrenUnder5 int
	MobileNumber   string
	Verified       bool
	TotalPrice     int64
	TransactionID  string

	AdminMuseum string
	IsAdmin     bool

	// menu maps the rendered (possibly translated) button labels of
	// the most recent keyboard back to canonical option ids.
	menu map[string]string
}

// Reset clears all booking progress, preserving only the language.
// The session lands back at the main menu.
func (s *Session) Reset() {
	lang, code, id := s.Language, s.LangCode, s.ConvID
	*s = Session{ConvID: id, Language: lang, LangCode: code, State: StateMainMenu}
	if lang == "" {
		s.State = StateInit
	}
}

// setMenu records the keyboard sent with the latest prompt so the next
// inbound reply can be resolved to a canonical option id.
func (s *Session) setMenu(labels map[string]string) {
	s.menu = labels
}

// resolveOption maps an inbound reply to the canonical option id of
// the last keyboard, or returns the raw text when no menu is pending.
func (s *Session) resolveOption(text string) (string, bool) {
	if s.menu == nil {
		return "", false
	}
	id, ok := s.menu[text]
	return id, ok
}
