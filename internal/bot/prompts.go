package bot

// Canonical option ids. The engine transitions on these, never on the
// (possibly translated) labels shown to the user.
const (
	optBook       = "book"
	optCancel     = "cancel"
	optExit       = "exit"
	optByName     = "by_name"
	optByLocation = "by_location"
	optConfirm    = "confirm"
	optViewToday  = "view_bookings"
	optLogout     = "logout"

	cbPayNow           = "pay_now"
	cbPaymentCompleted = "payment_completed"
)

// menuOption pairs a canonical id with its English label. Labels are
// translated at send time; the id is what the reply resolves to.
type menuOption struct {
	ID    string
	Label string
}

var (
	languageNames = []string{"English", "Hindi", "Tamil", "Telugu"}

	languageCodes = map[string]string{
		"English": "en",
		"Hindi":   "hi",
		"Tamil":   "ta",
		"Telugu":  "te",
	}

	mainMenuOptions = []menuOption{
		{optBook, "Book a Ticket"},
		{optCancel, "Cancel Booking"},
		{optExit, "Exit"},
	}

	searchMethodOptions = []menuOption{
		{optByName, "Museum Name"},
		{optByLocation, "Location"},
	}

	confirmOptions = []menuOption{
		{optConfirm, "Confirm"},
		{optExit, "Exit"},
	}

	adminMenuOptions = []menuOption{
		{optViewToday, "View Bookings"},
		{optLogout, "Logout"},
	}
)

const (
	msgChooseLanguage   = "Please choose your language:"
	msgHowAssist        = "How can I assist you?"
	msgSearchMethod     = "Would you like to book by Museum Name or Location?"
	msgChooseLocation   = "Choose a location:"
	msgChooseMuseum     = "Select a museum:"
	msgChooseDate       = "Select a date:"
	msgChooseSession    = "Select a session:"
	msgSessionPast      = "This session has already passed. Please select a future session."
	msgSlotSoldOut      = "Sorry, all tickets for this date and session have been booked. Please choose another date or session."
	msgSeatError        = "Please enter a valid number of seats."
	msgAgeError         = "Please enter a valid age."
	msgChildrenPrompt   = "How many children below 5 years will be accompanying? (Enter 0 if none)"
	msgChildrenError    = "Please enter a valid number of children."
	msgMobilePrompt     = "Please enter your 10-digit mobile number:"
	msgMobileError      = "Please enter a valid 10-digit mobile number."
	msgCodeSent         = "A verification code has been sent to your mobile number. Please enter the code to confirm your booking."
	msgCodeIncorrect    = "Incorrect verification code. Please try again."
	msgCodeIssueFailed  = "Error sending the verification code. Please try again."
	msgCodeCheckFailed  = "Error verifying code. Please try again."
	msgVerifiedPay      = "Your mobile number has been verified. Please click \"Pay Now\" to proceed with the payment."
	msgPaymentError     = "There was an error processing your payment. Please try again later."
	msgPaymentDeclined  = "Payment not completed or verified. Please try again or contact support."
	msgCommitFailed     = "There was an error confirming your booking. Please try again."
	msgCapacityGone     = "Sorry, the requested number of tickets are no longer available. Your payment will be refunded."
	msgTicketPrompt     = "Please enter your ticket number:"
	msgTicketNotFound   = "Invalid ticket number. Please try again or contact support."
	msgAnythingElse     = "Would you like to do anything else?"
	msgExited           = "You have exited the booking process. Type /start to begin again."
	msgScanToPay        = "Scan this QR code to pay"
	msgScanTicket       = "Scan this QR code for your booking details"
	msgPDFCaption       = "Here's your PDF ticket."
	msgPDFFailed        = "There was an error generating your PDF ticket. Please contact support."
	msgAdminMuseum      = "Please enter the museum name for admin login:"
	msgAdminPassword    = "Please enter the admin password:"
	msgAdminWelcome     = "Welcome, admin. What would you like to do?"
	msgAdminInvalid     = "Invalid credentials. Please try again."
	msgAdminBadMuseum   = "Invalid museum name. Please try again."
	msgAdminLoggedOut   = "You have been logged out."
	msgMuseumNotFound   = "No museum found by that name. Please pick one from the list."
	msgLocationNotFound = "No museums found for that location."
	msgCatalogError     = "Error fetching museum data. Please try again."
)
