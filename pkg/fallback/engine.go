package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mercator-hq/parley/pkg/providers"
)

// MaxCalls is the most upstream calls one chat request can make.
const MaxCalls = 3

// ErrStepLimit is returned when the engine would exceed MaxCalls or revisit a
// state. The transition table makes this unreachable; seeing it is a bug.
var ErrStepLimit = errors.New("fallback: step limit exceeded")

// Caller performs one upstream model call. It reports every outcome as an
// attempt and never returns nil.
type Caller interface {
	Call(ctx context.Context, method providers.Method, modelID string) *providers.Attempt
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, method providers.Method, modelID string) *providers.Attempt

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, method providers.Method, modelID string) *providers.Attempt {
	return f(ctx, method, modelID)
}

// State is a position in the fallback chain.
type State int

const (
	StateStart State = iota
	StateTryChat
	StateTryGeneration
	StateTrySwappedInstructGeneration
	StateDone
)

var stateNames = map[State]string{
	StateStart:                        "start",
	StateTryChat:                      "try_chat",
	StateTryGeneration:                "try_generation",
	StateTrySwappedInstructGeneration: "try_swapped_instruct_generation",
	StateDone:                         "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Event is the outcome of a state's step.
type Event int

const (
	EventInstructModel Event = iota
	EventChatModel
	EventSucceeded
	EventFailed
	EventSwappable
)

var eventNames = map[Event]string{
	EventInstructModel: "instruct_model",
	EventChatModel:     "chat_model",
	EventSucceeded:     "succeeded",
	EventFailed:        "failed",
	EventSwappable:     "swappable",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// transitions is the whole chain. No path visits a state twice, so no path
// makes more than MaxCalls calls.
var transitions = map[State]map[Event]State{
	StateStart: {
		EventInstructModel: StateTryGeneration,
		EventChatModel:     StateTryChat,
	},
	StateTryChat: {
		EventSucceeded: StateDone,
		EventFailed:    StateTryGeneration,
	},
	StateTryGeneration: {
		EventSucceeded: StateDone,
		EventFailed:    StateDone,
		EventSwappable: StateTrySwappedInstructGeneration,
	},
	StateTrySwappedInstructGeneration: {
		EventSucceeded: StateDone,
		EventFailed:    StateDone,
	},
}

// Next returns the state that follows s on event e.
func Next(s State, e Event) (State, bool) {
	next, ok := transitions[s][e]
	return next, ok
}

// Result is the outcome of the chain for one chat request.
type Result struct {
	// Reply is the normalized reply; empty on failure
	Reply string

	// Method labels how the reply was produced, or which chain failed
	Method providers.Method

	// UsedModel is the substituted instruct model; empty when the requested
	// model was used
	UsedModel string

	// Details is the raw upstream error object reported on failure
	Details json.RawMessage

	// Err is the error of the attempt the details came from
	Err error

	// Attempts lists every call made, in order
	Attempts []*providers.Attempt
}

// Succeeded reports whether the chain produced a reply.
func (r *Result) Succeeded() bool {
	return r != nil && r.Reply != ""
}

// machine holds the state of one run.
type machine struct {
	caller  Caller
	modelID string

	chat     *providers.Attempt
	gen      *providers.Attempt
	swapped  *providers.Attempt
	variant  string
	attempts []*providers.Attempt
}

// Run drives the fallback chain for modelID:
//
//  1. Instruct models call generation only.
//  2. Other models call chat first.
//  3. If chat fails, generation is called with the same model.
//  4. If both fail, the preferred error code is model_not_supported and the
//     model is a Granite chat model, generation is called once more with its
//     instruct variant.
//  5. Otherwise the chain fails.
//
// Run makes at most MaxCalls calls and never returns nil.
func Run(ctx context.Context, caller Caller, modelID string) *Result {
	m := &machine{caller: caller, modelID: modelID}

	state := StateStart
	visited := make(map[State]bool, len(transitions))
	for state != StateDone {
		if visited[state] || len(m.attempts) >= MaxCalls {
			return m.abort(state)
		}
		visited[state] = true

		event := m.step(ctx, state)
		next, ok := Next(state, event)
		if !ok {
			return m.abort(state)
		}
		state = next
	}
	return m.result()
}

// step performs the single call owned by state and classifies it.
func (m *machine) step(ctx context.Context, state State) Event {
	switch state {
	case StateStart:
		if IsInstructModel(m.modelID) {
			return EventInstructModel
		}
		return EventChatModel

	case StateTryChat:
		m.chat = m.call(ctx, providers.MethodChat, m.modelID)
		return outcome(m.chat)

	case StateTryGeneration:
		m.gen = m.call(ctx, providers.MethodGeneration, m.modelID)
		if m.gen.Succeeded() {
			return EventSucceeded
		}
		if m.chat != nil && m.preferredError().ErrorCode == "model_not_supported" {
			if variant, ok := InstructVariant(m.modelID); ok {
				m.variant = variant
				return EventSwappable
			}
		}
		return EventFailed

	case StateTrySwappedInstructGeneration:
		m.swapped = m.call(ctx, providers.MethodGenerationInstruct, m.variant)
		return outcome(m.swapped)
	}
	return EventFailed
}

func (m *machine) call(ctx context.Context, method providers.Method, modelID string) *providers.Attempt {
	attempt := m.caller.Call(ctx, method, modelID)
	if attempt == nil {
		attempt = &providers.Attempt{
			Method:  method,
			ModelID: modelID,
			Details: json.RawMessage(`{"message":"no response"}`),
			Err:     fmt.Errorf("%s call for model %q returned no attempt", method, modelID),
		}
	}
	m.attempts = append(m.attempts, attempt)
	return attempt
}

func outcome(a *providers.Attempt) Event {
	if a.Succeeded() {
		return EventSucceeded
	}
	return EventFailed
}

// preferredError picks the attempt whose error object is reported after chat
// and generation both failed: the first one whose body carried an "error"
// member, chat before generation, otherwise the chat attempt.
func (m *machine) preferredError() *providers.Attempt {
	switch {
	case m.chat != nil && m.chat.HasErrorObject:
		return m.chat
	case m.gen != nil && m.gen.HasErrorObject:
		return m.gen
	case m.chat != nil:
		return m.chat
	default:
		return m.gen
	}
}

func (m *machine) result() *Result {
	r := &Result{Attempts: m.attempts}

	switch {
	case m.swapped != nil:
		r.Method = providers.MethodGenerationInstruct
		r.UsedModel = m.variant
		if m.swapped.Succeeded() {
			r.Reply = m.swapped.Reply
			return r
		}
		source := m.swapped
		if !source.HasErrorObject {
			source = m.preferredError()
		}
		r.Details, r.Err = source.Details, source.Err

	case m.gen != nil && m.gen.Succeeded():
		r.Method = providers.MethodGeneration
		r.Reply = m.gen.Reply

	case m.chat != nil && m.chat.Succeeded():
		r.Method = providers.MethodChat
		r.Reply = m.chat.Reply

	case m.chat == nil:
		r.Method = providers.MethodGeneration
		r.Details, r.Err = m.gen.Details, m.gen.Err

	default:
		source := m.preferredError()
		r.Method = providers.MethodChatThenGeneration
		r.Details, r.Err = source.Details, source.Err
	}
	return r
}

func (m *machine) abort(state State) *Result {
	return &Result{
		Method:   providers.MethodChatThenGeneration,
		Details:  json.RawMessage(`{"message":"fallback chain aborted"}`),
		Err:      fmt.Errorf("%w in state %s after %d calls", ErrStepLimit, state, len(m.attempts)),
		Attempts: m.attempts,
	}
}
