package telegram

import (
	"bytes"
	"context"
	"strconv"
	"sync"
	"time"

	"museumbot/internal/bot"
	"museumbot/internal/utils"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const sendTimeout = 15 * time.Second

type inboundKind int

const (
	inboundMessage inboundKind = iota
	inboundCallback
)

type inbound struct {
	kind inboundKind
	text string
}

// Transport connects the conversation engine to Telegram. Each chat
// gets its own worker goroutine so a conversation's events are always
// processed one at a time and in arrival order, while distinct chats
// proceed in parallel.
type Transport struct {
	bot    *telego.Bot
	engine *bot.Engine

	mu      sync.Mutex
	workers map[int64]chan inbound
	wg      sync.WaitGroup
}

func New(token string, engine *bot.Engine) (*Transport, error) {
	b, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, err
	}
	return &Transport{
		bot:     b,
		engine:  engine,
		workers: make(map[int64]chan inbound),
	}, nil
}

// Run consumes updates until ctx is cancelled, then drains the chat
// workers.
func (t *Transport) Run(ctx context.Context) error {
	updates, err := t.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return err
	}

	for update := range updates {
		switch {
		case update.Message != nil && update.Message.Text != "":
			t.dispatch(update.Message.Chat.ID, inbound{kind: inboundMessage, text: update.Message.Text})
		case update.CallbackQuery != nil:
			q := update.CallbackQuery
			t.answerCallback(ctx, q.ID)
			// Private-chat bot: the sender's id is the chat id.
			t.dispatch(q.From.ID, inbound{kind: inboundCallback, text: q.Data})
		}
	}

	t.mu.Lock()
	for id, ch := range t.workers {
		close(ch)
		delete(t.workers, id)
	}
	t.mu.Unlock()
	t.wg.Wait()
	return nil
}

// dispatch hands the event to the chat's worker, creating one on first
// contact. Worker channels are buffered; a chat flooding faster than
// its own conversation can progress gets its extra events dropped.
func (t *Transport) dispatch(chatID int64, in inbound) {
	t.mu.Lock()
	ch, ok := t.workers[chatID]
	if !ok {
		ch = make(chan inbound, 32)
		t.workers[chatID] = ch
		t.wg.Add(1)
		go t.work(chatID, ch)
	}
	t.mu.Unlock()

	select {
	case ch <- in:
	default:
		utils.LogEvent(convID(chatID), "telegram", "dispatch", "inbound buffer full, dropping event")
	}
}

func (t *Transport) work(chatID int64, ch <-chan inbound) {
	defer t.wg.Done()
	id := convID(chatID)
	for in := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		switch in.kind {
		case inboundMessage:
			t.engine.HandleMessage(ctx, id, in.text)
		case inboundCallback:
			t.engine.HandleCallback(ctx, id, in.text)
		}
		cancel()
	}
}

func (t *Transport) answerCallback(ctx context.Context, queryID string) {
	err := t.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: queryID})
	if err != nil {
		utils.LogEvent("", "telegram", "answer_callback", "failed: "+err.Error())
	}
}

// --- outbound (bot.Messenger) ---

func (t *Transport) Send(conv, text string, opts *bot.SendOptions) {
	chatID, ok := chatIDOf(conv)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	params := tu.Message(tu.ID(chatID), text)
	if markup := replyMarkup(opts); markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		utils.LogEvent(conv, "telegram", "send", "failed: "+err.Error())
	}
}

func (t *Transport) SendImage(conv string, png []byte, caption string, opts *bot.SendOptions) {
	chatID, ok := chatIDOf(conv)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	params := &telego.SendPhotoParams{
		ChatID:  tu.ID(chatID),
		Photo:   tu.File(tu.NameReader(bytes.NewReader(png), "qr.png")),
		Caption: caption,
	}
	if markup := replyMarkup(opts); markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := t.bot.SendPhoto(ctx, params); err != nil {
		utils.LogEvent(conv, "telegram", "send_photo", "failed: "+err.Error())
	}
}

func (t *Transport) SendDocument(conv string, doc []byte, filename, caption string) {
	chatID, ok := chatIDOf(conv)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	params := &telego.SendDocumentParams{
		ChatID:   tu.ID(chatID),
		Document: tu.File(tu.NameReader(bytes.NewReader(doc), filename)),
		Caption:  caption,
	}
	if _, err := t.bot.SendDocument(ctx, params); err != nil {
		utils.LogEvent(conv, "telegram", "send_document", "failed: "+err.Error())
	}
}

// Conversation ids are the decimal chat id; outbound calls with a
// non-numeric id can only come from a programming error and are dropped.
func convID(chatID int64) string { return strconv.FormatInt(chatID, 10) }

func chatIDOf(conv string) (int64, bool) {
	id, err := strconv.ParseInt(conv, 10, 64)
	if err != nil {
		utils.LogEvent(conv, "telegram", "send", "invalid conversation id")
		return 0, false
	}
	return id, true
}

func replyMarkup(opts *bot.SendOptions) telego.ReplyMarkup {
	if opts == nil {
		return nil
	}
	if len(opts.Inline) > 0 {
		rows := make([][]telego.InlineKeyboardButton, 0, len(opts.Inline))
		for _, row := range opts.Inline {
			buttons := make([]telego.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, telego.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
			}
			rows = append(rows, buttons)
		}
		return &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
	}
	if len(opts.Keyboard) > 0 {
		rows := make([][]telego.KeyboardButton, 0, len(opts.Keyboard))
		for _, row := range opts.Keyboard {
			buttons := make([]telego.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, telego.KeyboardButton{Text: label})
			}
			rows = append(rows, buttons)
		}
		return &telego.ReplyKeyboardMarkup{
			Keyboard:        rows,
			ResizeKeyboard:  true,
			OneTimeKeyboard: opts.OneTime,
		}
	}
	return nil
}
