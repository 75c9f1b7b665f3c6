package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidshroff27/leadscout/internal/directory"
	"github.com/davidshroff27/leadscout/internal/hunter"
	"github.com/davidshroff27/leadscout/internal/metrics"
	"github.com/davidshroff27/leadscout/internal/store"
	"github.com/davidshroff27/leadscout/internal/urlx"
)

// Menu callback payloads.
const (
	OptionChat    = "Chat With Me"
	OptionBiz     = "search_biz"
	OptionScraper = "scraper"
)

const (
	promptBusinessType = "Please enter the type of business you're looking for:"
	promptCity         = "Please enter the city:"
	promptPages        = "Please enter the number of pages to search:"
	promptPagesRetry   = "That doesn't look like a number. Please enter the number of pages to search:"
	promptAPIKey       = "Please enter your API key:"
	promptAPIKeyRetry  = "Invalid API key. Please enter a valid API key:"
	promptDomain       = "Please enter the domain you want to scrape emails from:"

	msgNoBusinesses  = "No businesses found."
	msgRestrictedKey = "Your API key is restricted."
	msgNoEmails      = "No emails found for the given domain."
	msgRelayFailure  = "The assistant is unavailable right now. Please try again later."
	msgJoinChannel   = "Please join our channel to access this bot."
	msgStartGreeting = "Hi I am Levi Ackerman.\n\nPlease choose an option:"
)

// Config carries machine-level knobs.
type Config struct {
	MaxMessageLength int
	MaxPages         int
	JoinURL          string
	PurchaseURL      string
	ChatGreeting     string
}

// Machine routes inbound events to the correct handler based on each user's
// session state, and drives the scraper, email finder and relay. One event
// is processed per call; the transport guarantees calls for the same user
// never overlap.
type Machine struct {
	cfg      Config
	allow    AllowList
	sessions *SessionStore
	dir      Directory
	emails   EmailFinder
	relay    Relay
	filter   Filter
	sender   Sender
	leads    LeadStore
	logger   *zap.Logger
}

// NewMachine constructs a Machine.
func NewMachine(
	cfg Config,
	allow AllowList,
	dir Directory,
	emails EmailFinder,
	relay Relay,
	filter Filter,
	sender Sender,
	leads LeadStore,
	logger *zap.Logger,
) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 4096
	}
	if leads == nil {
		leads = store.Noop{}
	}
	return &Machine{
		cfg:      cfg,
		allow:    allow,
		sessions: NewSessionStore(),
		dir:      dir,
		emails:   emails,
		relay:    relay,
		filter:   filter,
		sender:   sender,
		leads:    leads,
		logger:   logger.Named("machine"),
	}
}

// Sessions exposes the session store, primarily for tests.
func (m *Machine) Sessions() *SessionStore {
	return m.sessions
}

// HandleMessage processes one inbound text message for a user. Commands
// (/start, /biz) are routed separately; everything else is dispatched on
// the session's current state.
func (m *Machine) HandleMessage(ctx context.Context, userID int64, text string) {
	metrics.ObserveEvent("message")
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		m.handleCommand(ctx, userID, text)
		return
	}
	// Denied users get no feedback from sub-flows.
	if !m.allow.Allowed(userID) {
		return
	}
	m.handleText(ctx, userID, text)
}

// HandleCallback processes one menu-button selection.
func (m *Machine) HandleCallback(ctx context.Context, userID int64, data string) {
	metrics.ObserveEvent("callback")
	if !m.allow.Allowed(userID) {
		return
	}

	sess := m.sessions.Get(userID)
	switch data {
	case OptionChat:
		sess.SelectedOption = OptionChat
		m.send(ctx, userID, "chat", m.cfg.ChatGreeting)
	case OptionBiz:
		sess.SelectedOption = OptionBiz
		sess.State = StateAwaitBusinessType
		m.send(ctx, userID, "biz", promptBusinessType)
	case OptionScraper:
		sess.SelectedOption = OptionScraper
		sess.State = StateScraperAPIKey
		m.send(ctx, userID, "scraper", promptAPIKey)
	default:
		m.logger.Debug("ignoring unknown callback", zap.Int64("user_id", userID), zap.String("data", data))
	}
}

func (m *Machine) handleCommand(ctx context.Context, userID int64, text string) {
	cmd := strings.Fields(text)[0]
	switch cmd {
	case "/start":
		m.handleStart(ctx, userID)
	case "/biz":
		if !m.allow.Allowed(userID) {
			return
		}
		sess := m.sessions.Get(userID)
		sess.State = StateAwaitBusinessType
		m.send(ctx, userID, "biz", promptBusinessType)
	default:
		m.logger.Debug("ignoring unknown command", zap.Int64("user_id", userID), zap.String("command", cmd))
	}
}

// handleStart is the only entry point that answers unauthorized users.
func (m *Machine) handleStart(ctx context.Context, userID int64) {
	if !m.allow.Allowed(userID) {
		rows := [][]Button{{{Text: "Join", URL: m.cfg.JoinURL}}}
		if err := m.sender.SendMenu(ctx, userID, msgJoinChannel, rows); err != nil {
			m.logger.Warn("send denial failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		if m.cfg.PurchaseURL != "" {
			m.send(ctx, userID, "denied", fmt.Sprintf("Buy this %s to get access to this Bot", m.cfg.PurchaseURL))
		}
		return
	}

	rows := [][]Button{{
		{Text: "Chat With Me", CallbackData: OptionChat},
		{Text: "Search Biz", CallbackData: OptionBiz},
		{Text: "Scraper", CallbackData: OptionScraper},
	}}
	if err := m.sender.SendMenu(ctx, userID, msgStartGreeting, rows); err != nil {
		m.logger.Warn("send menu failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	metrics.ObserveReply("start")
}

// handleText advances the session state machine by exactly one transition.
func (m *Machine) handleText(ctx context.Context, userID int64, text string) {
	sess := m.sessions.Get(userID)
	switch sess.State {
	case StateAwaitBusinessType:
		sess.BusinessType = text
		sess.State = StateAwaitCity
		m.send(ctx, userID, "biz", promptCity)

	case StateAwaitCity:
		sess.City = text
		sess.State = StateAwaitPages
		m.send(ctx, userID, "biz", promptPages)

	case StateAwaitPages:
		m.runSearch(ctx, sess, text)

	case StateScraperAPIKey:
		if !m.emails.ValidateKey(ctx, text) {
			m.send(ctx, userID, "scraper", promptAPIKeyRetry)
			return
		}
		sess.HunterAPIKey = text
		sess.State = StateScraperDomain
		m.send(ctx, userID, "scraper", promptDomain)

	case StateScraperDomain:
		m.runEmailSearch(ctx, sess, text)

	case StateIdle:
		m.runChat(ctx, sess, text)
	}
}

// runSearch parses the page count, runs the scraper and emits chunked
// results. A non-integer count re-prompts in place rather than aborting
// the flow.
func (m *Machine) runSearch(ctx context.Context, sess *Session, text string) {
	pages, err := strconv.Atoi(text)
	if err != nil || pages < 1 {
		m.send(ctx, sess.UserID, "biz", promptPagesRetry)
		return
	}
	if m.cfg.MaxPages > 0 && pages > m.cfg.MaxPages {
		pages = m.cfg.MaxPages
	}
	sess.PageCount = pages
	sess.State = StateIdle

	records, err := m.dir.Search(ctx, sess.BusinessType, sess.City, pages)
	if err != nil {
		m.logger.Warn("directory search failed",
			zap.Int64("user_id", sess.UserID),
			zap.String("business_type", sess.BusinessType),
			zap.String("city", sess.City),
			zap.Error(err),
		)
	}
	if len(records) == 0 {
		m.send(ctx, sess.UserID, "biz", msgNoBusinesses)
		return
	}

	formatted := make([]string, len(records))
	for i, rec := range records {
		formatted[i] = formatRecord(rec)
	}
	for _, chunk := range ChunkMessages(formatted, m.cfg.MaxMessageLength) {
		m.send(ctx, sess.UserID, "biz", chunk)
	}

	m.persistLeads(ctx, sess, pages, records)
}

func (m *Machine) runEmailSearch(ctx context.Context, sess *Session, text string) {
	domain := urlx.ExtractDomain(text)
	sess.Domain = domain
	sess.State = StateIdle

	result := m.emails.FindEmails(ctx, sess.HunterAPIKey, domain)
	switch result.Outcome {
	case hunter.OutcomeRestricted:
		m.send(ctx, sess.UserID, "scraper", msgRestrictedKey)
	case hunter.OutcomeEmails:
		if len(result.Emails) == 0 {
			m.send(ctx, sess.UserID, "scraper", msgNoEmails)
			return
		}
		m.send(ctx, sess.UserID, "scraper", "Emails found:\n"+strings.Join(result.Emails, "\n"))
		for _, email := range result.Emails {
			m.send(ctx, sess.UserID, "scraper", email)
		}
	case hunter.OutcomeNone:
		m.send(ctx, sess.UserID, "scraper", msgNoEmails)
	}
}

func (m *Machine) runChat(ctx context.Context, sess *Session, text string) {
	reply, err := m.relay.Complete(ctx, text)
	if err != nil {
		m.logger.Warn("relay failed", zap.Int64("user_id", sess.UserID), zap.Error(err))
		m.send(ctx, sess.UserID, "chat", msgRelayFailure)
		return
	}
	if m.filter != nil {
		reply = m.filter.Apply(reply)
	}
	m.send(ctx, sess.UserID, "chat", reply)
}

// persistLeads is best effort; a store failure never blocks the reply.
func (m *Machine) persistLeads(ctx context.Context, sess *Session, pages int, records []directory.Record) {
	run := store.SearchRun{
		ID:           uuid.NewString(),
		UserID:       sess.UserID,
		BusinessType: sess.BusinessType,
		City:         sess.City,
		Pages:        pages,
		RequestedAt:  time.Now().UTC(),
	}
	leads := make([]store.Lead, len(records))
	for i, rec := range records {
		leads[i] = store.Lead{
			RunID:   run.ID,
			Name:    rec.Name,
			Address: rec.Address,
			Phone:   rec.Phone,
			Website: rec.Website,
		}
	}
	if err := m.leads.SaveRun(ctx, run, leads); err != nil {
		m.logger.Warn("lead persistence failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// send is the single exit point for outbound text; bodies longer than the
// configured cap are split before delivery so no message ever exceeds it.
func (m *Machine) send(ctx context.Context, chatID int64, flow, text string) {
	for _, part := range splitMessage(text, m.cfg.MaxMessageLength) {
		if err := m.sender.SendText(ctx, chatID, part); err != nil {
			m.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
		metrics.ObserveReply(flow)
	}
}

// splitMessage cuts text into pieces no longer than maxLength bytes,
// backing cuts off to rune boundaries so multi-byte characters stay intact.
func splitMessage(text string, maxLength int) []string {
	if maxLength <= 0 || len(text) <= maxLength {
		return []string{text}
	}
	var parts []string
	for len(text) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLength
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func formatRecord(rec directory.Record) string {
	return fmt.Sprintf("======================\nName: %s\nAddress: %s\nPhone: %s\nURL: %s\n",
		rec.Name, rec.Address, rec.Phone, rec.Website)
}
