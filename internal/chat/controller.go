package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcliao/persona-chat/internal/memory"
	"github.com/rcliao/persona-chat/internal/model"
	"github.com/rcliao/persona-chat/internal/persona"
)

// InterruptedMarker is appended to a cancelled response's partial
// content, distinguishing "cancelled" from "failed".
const InterruptedMarker = "\n\n[Response interrupted]"

// Session holds the transient conversation context: persona pair and
// generation parameters. Not persisted.
type Session struct {
	UserPersonaID string
	AIPersonaID   string
	Settings      model.Settings
}

// Controller drives the exchange with the completions endpoint. At most
// one generation is in flight per session; Stop cancels it
// cooperatively.
type Controller struct {
	client   *Client
	memory   *memory.Store
	log      *Log
	personas persona.Provider
	events   *Events
	session  Session

	mu         sync.Mutex
	generating bool
	cancel     context.CancelFunc
}

// NewController wires the controller to its collaborators. Memory store
// mutations are surfaced through the MemoryChanged event.
func NewController(client *Client, mem *memory.Store, log *Log, personas persona.Provider, events *Events, session Session) *Controller {
	mem.OnChange(events.memoryChanged)
	return &Controller{
		client:   client,
		memory:   mem,
		log:      log,
		personas: personas,
		events:   events,
		session:  session,
	}
}

// Generating reports whether a generation is currently in flight.
func (c *Controller) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// Stop requests cancellation of the in-flight generation. It returns
// false when nothing is running. The partial response is preserved.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

func (c *Controller) begin(ctx context.Context) (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generating {
		return nil, ErrBusy
	}
	cctx, cancel := context.WithCancel(ctx)
	c.generating = true
	c.cancel = cancel
	return cctx, nil
}

func (c *Controller) end() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generating = false
	c.cancel = nil
	c.mu.Unlock()
	c.events.generationEnded()
}

// Send runs one full exchange: appends the user turn, feeds memory,
// ranks context, issues the request and settles the assistant reply into
// the log. It blocks until the generation completes, fails, or is
// cancelled via Stop.
func (c *Controller) Send(ctx context.Context, content string) (*model.Message, error) {
	// Authentication is checked before any log mutation.
	if err := c.client.CheckAuth(); err != nil {
		return nil, err
	}

	cctx, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer c.end()

	userP, aiP := c.resolvePersonas()

	// Window is captured before the new turn lands so the model sees it
	// exactly once, appended last.
	window := c.log.Recent(recentWindow)

	if _, err := c.log.Append(model.RoleUser, content, c.session.UserPersonaID, false); err != nil {
		return nil, err
	}

	if err := c.memory.Process(content); err != nil {
		slog.Warn("memory process failed", "error", err)
	}

	ranked := c.memory.Relevant(content, memory.DefaultRankLimit)
	turns := BuildPrompt(content, ranked, userP, aiP, window)

	req := Request{
		Model:       c.session.Settings.Model,
		Messages:    turns,
		Temperature: c.session.Settings.Temperature,
		MaxTokens:   c.session.Settings.MaxTokens,
		Stream:      c.session.Settings.Stream,
	}

	if c.session.Settings.Stream {
		return c.streamExchange(cctx, req)
	}
	return c.completeExchange(cctx, req)
}

func (c *Controller) streamExchange(ctx context.Context, req Request) (*model.Message, error) {
	stream, err := c.client.Stream(ctx, req)
	if err != nil {
		return nil, c.transportFailure(err)
	}
	defer stream.Close()

	// First byte received: the placeholder fixes the reply's position
	// and id before any content exists.
	placeholder, err := c.log.Append(model.RoleAssistant, "", c.session.AIPersonaID, true)
	if err != nil {
		return nil, err
	}

	var acc string
	for {
		delta, done, recvErr := stream.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return c.finalize(placeholder.ID, acc+InterruptedMarker)
			}
			// Mid-stream transport failure: keep the partial content,
			// then surface the error.
			if _, finErr := c.finalize(placeholder.ID, acc); finErr != nil {
				slog.Warn("finalize after stream failure", "error", finErr)
			}
			return nil, c.transportFailure(recvErr)
		}
		if done {
			break
		}
		acc += delta
		c.log.UpdateStreaming(placeholder.ID, acc)
	}

	return c.finalize(placeholder.ID, acc)
}

func (c *Controller) completeExchange(ctx context.Context, req Request) (*model.Message, error) {
	resp, err := c.client.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, c.transportFailure(err)
	}

	msg, err := c.log.Append(model.RoleAssistant, resp.Content(), c.session.AIPersonaID, false)
	if err != nil {
		return nil, err
	}

	if err := c.memory.Process(msg.Content); err != nil {
		slog.Warn("memory process failed", "error", err)
	}

	tokens := EstimateTokens(msg.Content)
	if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
		tokens = resp.Usage.TotalTokens
	}
	if err := c.log.AddTokens(tokens); err != nil {
		slog.Warn("token accounting failed", "error", err)
	}

	return msg, nil
}

// finalize settles the placeholder with the accumulated content, feeds
// the reply back into memory and updates token accounting.
func (c *Controller) finalize(id, content string) (*model.Message, error) {
	if err := c.log.Finalize(id, content); err != nil {
		return nil, err
	}

	if content != "" {
		if err := c.memory.Process(content); err != nil {
			slog.Warn("memory process failed", "error", err)
		}
	}
	if err := c.log.AddTokens(EstimateTokens(content)); err != nil {
		slog.Warn("token accounting failed", "error", err)
	}

	msg, ok := c.log.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return msg, nil
}

// transportFailure records a visible error message in the log and
// notifies the presentation layer. The original user message is kept.
func (c *Controller) transportFailure(err error) error {
	c.log.AppendError("Failed to send message. Please try again.")
	c.events.notify("error", err.Error())
	return err
}

func (c *Controller) resolvePersonas() (*model.Persona, *model.Persona) {
	var userP, aiP *model.Persona
	if p, ok := c.personas.Get(c.session.UserPersonaID, model.PersonaUser); ok {
		userP = p
	}
	if p, ok := c.personas.Get(c.session.AIPersonaID, model.PersonaAI); ok {
		aiP = p
	}
	return userP, aiP
}

// EditMessage rewrites a message. For a user message with regenerate
// set, the following assistant reply is deleted and a new generation
// runs with the edited text.
func (c *Controller) EditMessage(ctx context.Context, id, newContent string, regenerate bool) (*model.Message, error) {
	msg, err := c.log.Edit(id, newContent)
	if err != nil {
		return nil, err
	}

	if msg.Role == model.RoleUser && regenerate {
		if next, ok := c.log.NextAssistantAfter(id); ok {
			if err := c.log.Delete(next.ID); err != nil {
				return nil, err
			}
			return c.Send(ctx, newContent)
		}
	}
	return msg, nil
}

// Regenerate re-runs generation for a user message, replacing the
// assistant reply that followed it.
func (c *Controller) Regenerate(ctx context.Context, id string) (*model.Message, error) {
	msg, ok := c.log.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if msg.Role != model.RoleUser {
		return nil, fmt.Errorf("%w: %s", ErrNotUserMessage, id)
	}

	if next, ok := c.log.NextAssistantAfter(id); ok {
		if err := c.log.Delete(next.ID); err != nil {
			return nil, err
		}
	} else {
		c.events.notify("info", "nothing to regenerate")
	}

	return c.Send(ctx, msg.Content)
}
