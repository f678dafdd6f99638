// Package widget implements the chat controller: it turns submitted text into
// backend requests and renders the results into a message list.
//
// A Widget is driven from a single UI goroutine. Send and Resolve mutate the
// list and must run there. Exchange.Do is the only blocking step and is safe to
// run anywhere. Several exchanges may be outstanding at once. Each resolves on
// its own, in whatever order the responses arrive.
package widget

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/synapse-ai/synapse-chat/internal/api"
	"github.com/synapse-ai/synapse-chat/internal/clientid"
	apierrors "github.com/synapse-ai/synapse-chat/internal/errors"
	"github.com/synapse-ai/synapse-chat/internal/models"
	"github.com/synapse-ai/synapse-chat/internal/storage"
)

// Widget is the chat controller bound to a message list, an input and a
// backend client.
type Widget struct {
	list   MessageList
	input  Input
	client api.ChatClientInterface
	texts  Texts
	logger zerolog.Logger
	now    func() time.Time

	// store is nil when requests do not carry a client identifier
	store  storage.Storage
	userID string

	nextID  uint64
	pending int
}

// Option configures a Widget
type Option func(*Widget)

// WithInput binds the text field Submit reads from and clears
func WithInput(input Input) Option {
	return func(w *Widget) {
		w.input = input
	}
}

// WithClientID makes requests carry the persisted client identifier
func WithClientID(store storage.Storage) Option {
	return func(w *Widget) {
		w.store = store
	}
}

// WithTexts replaces the rendered strings
func WithTexts(texts Texts) Option {
	return func(w *Widget) {
		w.texts = texts
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithClock replaces time.Now, used when generating the client identifier
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
	}
}

// New creates a Widget rendering into list and talking to client
func New(list MessageList, client api.ChatClientInterface, opts ...Option) *Widget {
	w := &Widget{
		list:   list,
		client: client,
		texts:  TextsFor(DefaultLocale),
		logger: zerolog.Nop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Init renders the greeting
func (w *Widget) Init() {
	w.RenderAssistantMessage(w.texts.Greeting, false)
}

// Texts returns the strings the widget renders
func (w *Widget) Texts() Texts {
	return w.texts
}

// Pending returns the number of exchanges awaiting a response
func (w *Widget) Pending() int {
	return w.pending
}

// SendsClientID reports whether requests carry the client identifier
func (w *Widget) SendsClientID() bool {
	return w.store != nil
}

// Endpoint returns the URL exchanges are posted to
func (w *Widget) Endpoint() string {
	return w.client.Endpoint()
}

// Submit sends the current input value
func (w *Widget) Submit() (*Exchange, error) {
	if w.input == nil {
		return nil, apierrors.NewValidationError("no input bound")
	}
	return w.Send(w.input.Value())
}

// Send renders text as a user message followed by a thinking placeholder
// and returns the pending exchange. Text that is empty after trimming is
// rejected with a ValidationError and renders nothing.
func (w *Widget) Send(text string) (*Exchange, error) {
	message := strings.TrimSpace(text)
	if message == "" {
		return nil, apierrors.NewValidationError(apierrors.ErrEmptyMessage.Error())
	}

	w.RenderUserMessage(message)
	if w.input != nil {
		w.input.Reset()
	}
	placeholder := w.RenderAssistantMessage(w.texts.Thinking, true)

	req := models.ChatRequest{Message: message}
	if w.store != nil {
		req.UserID = w.ClientID()
	}

	w.nextID++
	w.pending++

	ex := &Exchange{
		ID:          w.nextID,
		Request:     req,
		placeholder: placeholder,
		client:      w.client,
	}

	w.logger.Debug().
		Uint64("exchange", ex.ID).
		Str("endpoint", w.client.Endpoint()).
		Int("pending", w.pending).
		Msg("exchange started")

	return ex, nil
}

// Resolve removes the exchange's placeholder and renders the outcome: the
// reply on success, the apology on an application error and the network
// message on anything else. It returns the rendered message and the failure,
// if any. Resolving the same exchange twice does nothing.
func (w *Widget) Resolve(ex *Exchange, result Result) (models.Message, error) {
	if ex == nil || ex.resolved {
		return models.Message{}, nil
	}
	ex.resolved = true
	w.pending--

	w.list.Remove(ex.placeholder)
	w.list.ScrollToBottom()

	err := result.Err
	if err == nil && !result.Response.OK() {
		// a client that returned neither an error nor a success
		err = apierrors.NewApplicationError(w.client.Endpoint(), statusOf(result.Response), "")
	}

	var msg models.Message
	switch apierrors.KindOf(err) {
	case apierrors.KindNone:
		msg = w.renderAssistant(result.Response.Reply)
		w.logger.Debug().Uint64("exchange", ex.ID).Msg("exchange succeeded")

	case apierrors.KindApplication:
		msg = w.renderAssistant(w.texts.Apology)
		w.logger.Warn().
			Uint64("exchange", ex.ID).
			Str("endpoint", w.client.Endpoint()).
			Str("status", apierrors.GetStatus(err)).
			Msg("backend returned a non-success status")

	default:
		msg = w.renderAssistant(w.texts.NetworkError)
		w.logger.Error().
			Err(err).
			Uint64("exchange", ex.ID).
			Str("endpoint", w.client.Endpoint()).
			Str("user_id", ex.Request.UserID).
			Msg("exchange failed")
	}

	return msg, err
}

// SendAndWait runs a whole exchange synchronously
func (w *Widget) SendAndWait(ctx context.Context, text string) (models.Message, error) {
	ex, err := w.Send(text)
	if err != nil {
		return models.Message{}, err
	}
	return w.Resolve(ex, ex.Do(ctx))
}

// RenderUserMessage appends a user message
func (w *Widget) RenderUserMessage(text string) Handle {
	h := w.list.Append(models.Message{Role: models.RoleUser, Text: text})
	w.list.ScrollToBottom()
	return h
}

// RenderAssistantMessage appends an assistant message. A thinking message is
// a placeholder the caller removes once the reply is known.
func (w *Widget) RenderAssistantMessage(text string, thinking bool) Handle {
	h := w.list.Append(models.Message{Role: models.RoleAI, Text: text, Thinking: thinking})
	w.list.ScrollToBottom()
	return h
}

func (w *Widget) renderAssistant(text string) models.Message {
	w.RenderAssistantMessage(text, false)
	return models.Message{Role: models.RoleAI, Text: text}
}

// ClientID returns the client identifier, creating and persisting it on first
// use. If the store fails the widget still gets an identifier for this run,
// and an unreadable store is overwritten with it.
func (w *Widget) ClientID() string {
	if w.userID != "" {
		return w.userID
	}

	store := w.store
	if store == nil {
		store = storage.NewMemoryStorage()
	}

	id, err := clientid.Resolve(store, w.now())
	if err != nil {
		w.logger.Warn().Err(err).Msg("client identifier store failed")
	}
	if id == "" {
		id, err = clientid.Generate(w.now())
		if err != nil {
			w.logger.Error().Err(err).Msg("failed to generate client identifier")
		}
	}

	w.userID = id
	return id
}

func statusOf(resp *models.ChatResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Status
}

// Exchange is one in-flight request and the placeholder waiting for it.
type Exchange struct {
	ID      uint64
	Request models.ChatRequest

	placeholder Handle
	client      api.ChatClientInterface
	resolved    bool
}

// Result is the outcome of Exchange.Do
type Result struct {
	Response *models.ChatResponse
	Err      error
}

// Do performs the blocking backend call. It does not touch the message list,
// so it can run off the UI goroutine.
func (e *Exchange) Do(ctx context.Context) Result {
	resp, err := e.client.Send(ctx, e.Request)
	return Result{Response: resp, Err: err}
}

// Resolved reports whether the exchange has been resolved
func (e *Exchange) Resolved() bool {
	return e.resolved
}
