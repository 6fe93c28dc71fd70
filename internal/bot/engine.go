package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"museumbot/internal/domain"
	"museumbot/internal/domain/models"
	"museumbot/internal/gateway"
	"museumbot/internal/services"
	"museumbot/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Engine is the per-conversation finite state machine. One inbound
// event is processed at a time per conversation id; the transport
// guarantees that ordering, so sessions need no internal locking.
type Engine struct {
	Sessions  *SessionStore
	Museums   services.MuseumCatalog
	Bookings  services.BookingStore
	Inventory services.InventoryService
	Confirm   services.ConfirmationService
	Cancel    services.CancelService
	Verifier  services.VerificationGateway
	Docs      services.DocsService
	Messenger Messenger
	Translate gateway.Translator

	// Bcrypt hash of the shared admin credential; empty disables the
	// admin flow entirely.
	AdminPasswordHash string

	// Now is injectable for past-session checks in tests.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// HandleMessage processes one inbound text event for a conversation.
func (e *Engine) HandleMessage(ctx context.Context, convID, text string) {
	text = strings.TrimSpace(text)
	sess := e.Sessions.Get(convID)

	switch text {
	case "/start":
		*sess = Session{ConvID: convID, State: StateInit}
		e.promptLanguage(ctx, sess)
		return
	case "/admin":
		if e.AdminPasswordHash != "" && sess.State != StateAdminPassword {
			sess.IsAdmin = false
			sess.State = StateAdminMuseum
			e.send(ctx, sess, msgAdminMuseum, nil)
			return
		}
	}

	option, hasOption := sess.resolveOption(text)
	if !hasOption && text == "Exit" {
		option, hasOption = optExit, true
	}

	// Exit is honored from every state and resets everything but the
	// language.
	if hasOption && option == optExit {
		sess.Reset()
		if sess.State == StateInit {
			e.promptLanguage(ctx, sess)
			return
		}
		e.send(ctx, sess, msgExited, nil)
		return
	}

	switch sess.State {
	case StateInit:
		e.handleLanguage(ctx, sess, text, option)
	case StateMainMenu:
		e.handleMainMenu(ctx, sess, option)
	case StateAwaitTicket:
		e.handleCancelTicket(ctx, sess, text)
	case StateAdminMuseum:
		e.handleAdminMuseum(ctx, sess, text)
	case StateAdminPassword:
		e.handleAdminPassword(ctx, sess, text)
	case StateAdminMenu:
		e.handleAdminMenu(ctx, sess, option)
	case StateChooseSearch:
		e.handleSearchMethod(ctx, sess, option)
	case StateChooseLocation:
		e.handleLocation(ctx, sess, text, option, hasOption)
	case StateChooseMuseum:
		e.handleMuseum(ctx, sess, text, option, hasOption)
	case StateConfirmMuseum:
		e.handleConfirmMuseum(ctx, sess, option)
	case StateChooseDate:
		e.handleDate(ctx, sess, text, option, hasOption)
	case StateChooseSession:
		e.handleSession(ctx, sess, text, option, hasOption)
	case StateEnterSeats:
		e.handleSeatCount(ctx, sess, text)
	case StateEnterVisitor:
		e.handleVisitorName(ctx, sess, text)
	case StateEnterVisitorAge:
		e.handleVisitorAge(ctx, sess, text)
	case StateEnterChildren:
		e.handleChildren(ctx, sess, text)
	case StateEnterMobile:
		e.handleMobile(ctx, sess, text)
	case StateAwaitCode:
		e.handleCode(ctx, sess, text)
	case StateAwaitPayment:
		// Payment is driven by callback buttons; free text re-prompts.
		e.send(ctx, sess, msgVerifiedPay, payNowOptions(e.label(ctx, sess, "Pay Now")))
	default:
		e.promptLanguage(ctx, sess)
	}
}

// HandleCallback processes an inline-button event (payment flow).
func (e *Engine) HandleCallback(ctx context.Context, convID, data string) {
	sess := e.Sessions.Get(convID)
	if sess.State != StateAwaitPayment {
		return
	}
	switch data {
	case cbPayNow:
		e.issuePayment(ctx, sess)
	case cbPaymentCompleted:
		e.commit(ctx, sess)
	}
}

// --- language and menus ---

func (e *Engine) handleLanguage(ctx context.Context, sess *Session, text, option string) {
	choice := option
	if choice == "" {
		choice = text
	}
	if _, ok := languageCodes[choice]; !ok {
		e.promptLanguage(ctx, sess)
		return
	}
	sess.Language = choice
	sess.LangCode = languageCodes[choice]
	sess.State = StateMainMenu
	greeting := fmt.Sprintf("You have selected %s. ", choice)
	e.sendMenu(ctx, sess, greeting+msgHowAssist, mainMenuOptions)
}

func (e *Engine) handleMainMenu(ctx context.Context, sess *Session, option string) {
	switch option {
	case optBook:
		sess.State = StateChooseSearch
		e.sendMenu(ctx, sess, msgSearchMethod, searchMethodOptions)
	case optCancel:
		sess.State = StateAwaitTicket
		e.send(ctx, sess, msgTicketPrompt, nil)
	default:
		e.sendMenu(ctx, sess, msgHowAssist, mainMenuOptions)
	}
}

func (e *Engine) handleSearchMethod(ctx context.Context, sess *Session, option string) {
	switch option {
	case optByName:
		museums, err := e.Museums.ListAll()
		if err != nil {
			e.send(ctx, sess, msgCatalogError, nil)
			return
		}
		sess.State = StateChooseMuseum
		e.sendMenu(ctx, sess, msgChooseMuseum, museumOptions(museums))
	case optByLocation:
		locations, err := e.Museums.DistinctLocations()
		if err != nil {
			e.send(ctx, sess, msgCatalogError, nil)
			return
		}
		opts := make([]menuOption, 0, len(locations))
		for _, loc := range locations {
			opts = append(opts, menuOption{ID: loc, Label: loc})
		}
		sess.State = StateChooseLocation
		e.sendMenu(ctx, sess, msgChooseLocation, opts)
	default:
		e.sendMenu(ctx, sess, msgSearchMethod, searchMethodOptions)
	}
}

func (e *Engine) handleLocation(ctx context.Context, sess *Session, text, option string, hasOption bool) {
	location := option
	if !hasOption {
		location = text
	}
	museums, err := e.Museums.FindByLocation(location)
	if err != nil {
		e.send(ctx, sess, msgCatalogError, nil)
		return
	}
	if len(museums) == 0 {
		e.send(ctx, sess, msgLocationNotFound, nil)
		return
	}
	sess.State = StateChooseMuseum
	e.sendMenu(ctx, sess, msgChooseMuseum, museumOptions(museums))
}

func (e *Engine) handleMuseum(ctx context.Context, sess *Session, text, option string, hasOption bool) {
	name := option
	if !hasOption {
		name = text
	}
	museum, err := e.Museums.FindByName(name)
	if err != nil {
		if domain.IsNotFound(err) {
			e.send(ctx, sess, msgMuseumNotFound, nil)
			return
		}
		e.send(ctx, sess, msgCatalogError, nil)
		return
	}

	sess.SelectedMuseum = museum.Name
	sess.State = StateConfirmMuseum
	e.sendMenu(ctx, sess, museumCard(museum), confirmOptions)
}

func (e *Engine) handleConfirmMuseum(ctx context.Context, sess *Session, option string) {
	if sess.SelectedMuseum == "" {
		sess.State = StateChooseSearch
		e.sendMenu(ctx, sess, msgSearchMethod, searchMethodOptions)
		return
	}
	if option != optConfirm {
		museum, err := e.Museums.FindByName(sess.SelectedMuseum)
		if err != nil {
			e.send(ctx, sess, msgCatalogError, nil)
			return
		}
		e.sendMenu(ctx, sess, museumCard(museum), confirmOptions)
		return
	}
	sess.Museum = sess.SelectedMuseum
	sess.SelectedMuseum = ""
	sess.State = StateChooseDate
	e.sendMenu(ctx, sess, msgChooseDate, dateOptions(utils.VisitDates(e.now())))
}

func (e *Engine) handleDate(ctx context.Context, sess *Session, text, option string, hasOption bool) {
	date := option
	if !hasOption {
		date = text
	}
	valid := false
	for _, d := range utils.VisitDates(e.now()) {
		if d == date {
			valid = true
			break
		}
	}
	if !valid {
		e.sendMenu(ctx, sess, msgChooseDate, dateOptions(utils.VisitDates(e.now())))
		return
	}
	sess.Date = date
	sess.State = StateChooseSession
	e.sendMenu(ctx, sess, msgChooseSession, sessionOptions())
}

func (e *Engine) handleSession(ctx context.Context, sess *Session, text, option string, hasOption bool) {
	slot := option
	if !hasOption {
		slot = text
	}
	if !utils.IsValidSession(slot) {
		e.sendMenu(ctx, sess, msgChooseSession, sessionOptions())
		return
	}
	if utils.IsSessionPast(sess.Date, slot, e.now()) {
		e.send(ctx, sess, msgSessionPast, nil)
		e.sendMenu(ctx, sess, msgChooseSession, sessionOptions())
		return
	}

	avail, err := e.Inventory.Availability(models.Slot{Museum: sess.Museum, Date: sess.Date, Session: slot})
	if err != nil {
		e.send(ctx, sess, msgCatalogError, nil)
		return
	}
	if avail.Available == 0 {
		e.send(ctx, sess, msgSlotSoldOut, nil)
		e.sendMenu(ctx, sess, msgChooseSession, sessionOptions())
		return
	}

	sess.SessionSlot = slot
	sess.State = StateEnterSeats
	e.send(ctx, sess, fmt.Sprintf("How many seats would you like to book? (%d available)", avail.Available), nil)
}

// --- seat, visitor and contact entry ---

func (e *Engine) handleSeatCount(ctx context.Context, sess *Session, text string) {
	seats, err := strconv.Atoi(text)
	if err != nil || seats <= 0 {
		e.send(ctx, sess, msgSeatError, nil)
		return
	}

	avail, invErr := e.Inventory.Availability(models.Slot{Museum: sess.Museum, Date: sess.Date, Session: sess.SessionSlot})
	if invErr != nil {
		e.send(ctx, sess, msgCatalogError, nil)
		return
	}
	if seats > avail.Available {
		e.send(ctx, sess, fmt.Sprintf(
			"Sorry, only %d seats are available for this session. Please choose a smaller number of seats.",
			avail.Available), nil)
		return
	}

	sess.Seats = seats
	sess.Visitors = make([]models.Visitor, 0, seats)
	sess.CurrentVisitor = 1
	sess.State = StateEnterVisitor
	e.send(ctx, sess, fmt.Sprintf("Please enter the name of visitor %d:", sess.CurrentVisitor), nil)
}

func (e *Engine) handleVisitorName(ctx context.Context, sess *Session, text string) {
	if text == "" || len(sess.Visitors) >= sess.Seats {
		e.send(ctx, sess, fmt.Sprintf("Please enter the name of visitor %d:", sess.CurrentVisitor), nil)
		return
	}
	sess.Visitors = append(sess.Visitors, models.Visitor{Name: text, Age: -1})
	sess.State = StateEnterVisitorAge
	e.send(ctx, sess, fmt.Sprintf("Please enter the age of %s:", text), nil)
}

func (e *Engine) handleVisitorAge(ctx context.Context, sess *Session, text string) {
	age, err := strconv.Atoi(text)
	if err != nil || age < 0 {
		// Same visitor is re-asked; the index does not advance.
		e.send(ctx, sess, msgAgeError, nil)
		return
	}
	sess.Visitors[len(sess.Visitors)-1].Age = age
	sess.CurrentVisitor++

	if sess.CurrentVisitor <= sess.Seats {
		sess.State = StateEnterVisitor
		e.send(ctx, sess, fmt.Sprintf("Please enter the name of visitor %d:", sess.CurrentVisitor), nil)
		return
	}
	sess.State = StateEnterChildren
	e.send(ctx, sess, msgChildrenPrompt, nil)
}

func (e *Engine) handleChildren(ctx context.Context, sess *Session, text string) {
	children, err := strconv.Atoi(text)
	if err != nil || children < 0 {
		e.send(ctx, sess, msgChildrenError, nil)
		return
	}
	// Stored exactly as entered; the historical +1/-1 adjustment pair
	// is intentionally not carried over.
	sess.ChildrenUnder5 = children

	museum, err := e.Museums.FindByName(sess.Museum)
	if err != nil {
		e.send(ctx, sess, msgCatalogError, nil)
		return
	}
	sess.TotalPrice = int64(sess.Seats) * museum.PricePerSeat
	sess.State = StateEnterMobile
	e.send(ctx, sess, fmt.Sprintf("The total price for %d seats is %d INR.\n\n%s",
		sess.Seats, sess.TotalPrice, msgMobilePrompt), nil)
}

func (e *Engine) handleMobile(ctx context.Context, sess *Session, text string) {
	if !mobilePattern.MatchString(text) {
		e.send(ctx, sess, msgMobileError, nil)
		return
	}
	sess.MobileNumber = text

	if _, err := e.Verifier.IssueCode(ctx, sess.MobileNumber); err != nil {
		utils.LogEvent(sess.ConvID, "verify", "issue_code", "failed: "+err.Error())
		e.send(ctx, sess, msgCodeIssueFailed, nil)
		return
	}
	sess.State = StateAwaitCode
	e.send(ctx, sess, msgCodeSent, nil)
}

func (e *Engine) handleCode(ctx context.Context, sess *Session, text string) {
	approved, err := e.Verifier.CheckCode(ctx, sess.MobileNumber, text)
	if err != nil {
		utils.LogEvent(sess.ConvID, "verify", "check_code", "failed: "+err.Error())
		e.send(ctx, sess, msgCodeCheckFailed, nil)
		return
	}
	if !approved {
		e.send(ctx, sess, msgCodeIncorrect, nil)
		return
	}
	sess.Verified = true
	sess.State = StateAwaitPayment
	e.send(ctx, sess, msgVerifiedPay, payNowOptions(e.label(ctx, sess, "Pay Now")))
}

// --- payment ---

func (e *Engine) issuePayment(ctx context.Context, sess *Session) {
	museum, err := e.Museums.FindByName(sess.Museum)
	if err != nil {
		e.send(ctx, sess, msgPaymentError, nil)
		return
	}
	issue, err := e.Confirm.IssuePayment(museum, sess.TotalPrice)
	if err != nil {
		utils.LogEvent(sess.ConvID, "payment", "issue", "failed: "+err.Error())
		e.send(ctx, sess, msgPaymentError, nil)
		return
	}
	sess.TransactionID = issue.TransactionID

	e.send(ctx, sess, fmt.Sprintf(
		"Please scan the QR code below to complete your payment of %d INR.\n\nAfter payment, click the \"Payment Completed\" button to confirm your booking.",
		issue.Amount), nil)
	e.Messenger.SendImage(sess.ConvID, issue.QRPNG, e.label(ctx, sess, msgScanToPay), &SendOptions{
		Inline: [][]InlineButton{{{Text: e.label(ctx, sess, "Payment Completed"), Data: cbPaymentCompleted}}},
	})
}

func (e *Engine) commit(ctx context.Context, sess *Session) {
	if sess.TransactionID == "" {
		e.send(ctx, sess, msgVerifiedPay, payNowOptions(e.label(ctx, sess, "Pay Now")))
		return
	}

	booking, err := e.Confirm.Commit(ctx, services.CommitRequest{
		ConvID:         sess.ConvID,
		Museum:         sess.Museum,
		VisitDate:      sess.Date,
		Session:        sess.SessionSlot,
		Seats:          sess.Seats,
		Visitors:       sess.Visitors,
		ChildrenUnder5: sess.ChildrenUnder5,
		MobileNumber:   sess.MobileNumber,
		TotalPrice:     sess.TotalPrice,
		TransactionID:  sess.TransactionID,
		CodeApproved:   sess.Verified,
	})
	if err != nil {
		e.handleCommitFailure(ctx, sess, err)
		return
	}

	e.send(ctx, sess, fmt.Sprintf(
		"Your booking for %s on %s during %s with %d seats has been confirmed!\n\nTotal Price: %d INR\nYour ticket number is: %s",
		booking.Museum, booking.VisitDate, booking.Session, booking.Seats, booking.TotalPrice, booking.TicketNumber), nil)

	if png, qrErr := services.BuildQRPNG(services.TicketQRPayload(booking)); qrErr == nil {
		e.Messenger.SendImage(sess.ConvID, png, e.label(ctx, sess, msgScanTicket), nil)
	}
	if pdf, filename, pdfErr := e.Docs.BuildTicketPDF(sess.ConvID, booking); pdfErr == nil {
		e.Messenger.SendDocument(sess.ConvID, pdf, filename, e.label(ctx, sess, msgPDFCaption))
	} else {
		utils.LogEvent(sess.ConvID, "docs", "build_ticket", "failed: "+pdfErr.Error())
		e.send(ctx, sess, msgPDFFailed, nil)
	}

	sess.Reset()
	e.sendMenu(ctx, sess, msgAnythingElse, mainMenuOptions)
}

func (e *Engine) handleCommitFailure(ctx context.Context, sess *Session, err error) {
	switch {
	case errors.Is(err, services.ErrPaymentDeclined):
		e.send(ctx, sess, msgPaymentDeclined, nil)
	case domain.IsCapacity(err):
		capErr, _ := domain.AsCapacity(err)
		e.send(ctx, sess, msgCapacityGone, nil)
		utils.LogEvent(sess.ConvID, "booking", "commit",
			fmt.Sprintf("capacity lost: requested=%d available=%d", capErr.Requested, capErr.Available))
		// Offer a fresh date/session for the same museum.
		sess.SessionSlot = ""
		sess.TransactionID = ""
		sess.State = StateChooseDate
		e.sendMenu(ctx, sess, msgChooseDate, dateOptions(utils.VisitDates(e.now())))
	case domain.IsExternal(err):
		e.send(ctx, sess, msgPaymentDeclined, nil)
	default:
		// Persistence failure: the write may or may not have landed,
		// but it must be treated as not committed.
		utils.LogEvent(sess.ConvID, "booking", "commit", "failed: "+err.Error())
		e.send(ctx, sess, msgCommitFailed, nil)
	}
}

// --- cancel flow ---

func (e *Engine) handleCancelTicket(ctx context.Context, sess *Session, text string) {
	res, err := e.Cancel.Cancel(sess.ConvID, text)
	if err != nil {
		if domain.IsNotFound(err) {
			e.send(ctx, sess, msgTicketNotFound, nil)
		} else {
			e.send(ctx, sess, msgCommitFailed, nil)
		}
		sess.State = StateMainMenu
		e.sendMenu(ctx, sess, msgAnythingElse, mainMenuOptions)
		return
	}

	e.send(ctx, sess, fmt.Sprintf(
		"Your booking has been cancelled. A refund of %d INR will be processed to your original payment method within 3-5 business days.",
		res.RefundAmount), nil)
	sess.Reset()
	e.sendMenu(ctx, sess, msgAnythingElse, mainMenuOptions)
}

// --- admin flow ---

func (e *Engine) handleAdminMuseum(ctx context.Context, sess *Session, text string) {
	sess.AdminMuseum = text
	sess.State = StateAdminPassword
	e.send(ctx, sess, msgAdminPassword, nil)
}

func (e *Engine) handleAdminPassword(ctx context.Context, sess *Session, text string) {
	if e.AdminPasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(e.AdminPasswordHash), []byte(text)) != nil {
		sess.State = StateMainMenu
		e.send(ctx, sess, msgAdminInvalid, nil)
		return
	}
	if _, err := e.Museums.FindByName(sess.AdminMuseum); err != nil {
		sess.State = StateMainMenu
		e.send(ctx, sess, msgAdminBadMuseum, nil)
		return
	}
	sess.IsAdmin = true
	sess.State = StateAdminMenu
	e.sendMenu(ctx, sess, msgAdminWelcome, adminMenuOptions)
}

func (e *Engine) handleAdminMenu(ctx context.Context, sess *Session, option string) {
	switch option {
	case optViewToday:
		today := utils.FormatDate(e.now())
		bookings, err := e.Bookings.ListForDay(sess.AdminMuseum, today)
		if err != nil {
			e.send(ctx, sess, msgCatalogError, nil)
			return
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Today's bookings for %s:\n\n", sess.AdminMuseum)
		for _, b := range bookings {
			fmt.Fprintf(&sb, "Ticket: %s\nDate: %s\nSession: %s\nSeats: %d\nStatus: %s\n\n",
				b.TicketNumber, b.VisitDate, b.Session, b.Seats, b.PaymentStatus)
		}
		e.send(ctx, sess, sb.String(), nil)
		e.sendMenu(ctx, sess, msgAdminWelcome, adminMenuOptions)
	case optLogout:
		sess.IsAdmin = false
		sess.AdminMuseum = ""
		sess.State = StateMainMenu
		e.send(ctx, sess, msgAdminLoggedOut, nil)
		e.sendMenu(ctx, sess, msgHowAssist, mainMenuOptions)
	default:
		e.sendMenu(ctx, sess, msgAdminWelcome, adminMenuOptions)
	}
}

// --- outbound helpers ---

func (e *Engine) label(ctx context.Context, sess *Session, text string) string {
	return e.Translate.Translate(ctx, text, sess.LangCode)
}

func (e *Engine) send(ctx context.Context, sess *Session, text string, opts *SendOptions) {
	e.Messenger.Send(sess.ConvID, e.label(ctx, sess, text), opts)
}

// sendMenu renders a keyboard, translating labels for display while
// recording the label-to-id mapping for the next reply.
func (e *Engine) sendMenu(ctx context.Context, sess *Session, prompt string, options []menuOption) {
	labels := make(map[string]string, len(options))
	keyboard := make([][]string, 0, len(options))
	for _, opt := range options {
		rendered := e.label(ctx, sess, opt.Label)
		labels[rendered] = opt.ID
		if rendered != opt.Label {
			// Accept the canonical label too, in case translation is
			// inconsistent between render and reply.
			labels[opt.Label] = opt.ID
		}
		keyboard = append(keyboard, []string{rendered})
	}
	sess.setMenu(labels)
	e.Messenger.Send(sess.ConvID, e.label(ctx, sess, prompt), &SendOptions{Keyboard: keyboard, OneTime: true})
}

func (e *Engine) promptLanguage(ctx context.Context, sess *Session) {
	opts := make([]menuOption, 0, len(languageNames))
	for _, name := range languageNames {
		opts = append(opts, menuOption{ID: name, Label: name})
	}
	e.sendMenu(ctx, sess, msgChooseLanguage, opts)
}

func museumOptions(museums []models.Museum) []menuOption {
	out := make([]menuOption, 0, len(museums))
	for _, m := range museums {
		out = append(out, menuOption{ID: m.Name, Label: m.Name})
	}
	return out
}

func dateOptions(dates []string) []menuOption {
	out := make([]menuOption, 0, len(dates))
	for _, d := range dates {
		out = append(out, menuOption{ID: d, Label: d})
	}
	return out
}

func sessionOptions() []menuOption {
	out := make([]menuOption, 0, len(utils.Sessions))
	for _, s := range utils.Sessions {
		out = append(out, menuOption{ID: s, Label: s})
	}
	return out
}

func payNowOptions(label string) *SendOptions {
	return &SendOptions{Inline: [][]InlineButton{{{Text: label, Data: cbPayNow}}}}
}

func museumCard(m models.Museum) string {
	return fmt.Sprintf(
		"Museum: %s\nLocation: %s\nAddress: %s\nDescription: %s\nBest Time to Visit: %s\nTheme: %s\nTimings: %s",
		m.Name, m.Location, m.Address, m.Description, m.BestTimeToVisit, m.Theme, m.Timings)
}
