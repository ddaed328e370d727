// Package human defines the structured boundary between the workflow
// controller and the person steering it. The controller emits a Request of a
// given kind and blocks until it gets a Response of the matching kind;
// malformed responses are re-prompted, never fatal.
package human

import (
	"context"
	"fmt"
	"sync"
)

// Kind identifies what the controller is asking for.
type Kind string

const (
	// KindApproval asks for an approve / revise / abort decision.
	KindApproval Kind = "approval"

	// KindFeedback asks for free-text revision guidance.
	KindFeedback Kind = "feedback"

	// KindFilename asks for an export path.
	KindFilename Kind = "filename"
)

// Decision is the outcome of an approval request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionRevise  Decision = "revise"
	DecisionAbort   Decision = "abort"
)

// Request is one structured question for the human.
type Request struct {
	Kind        Kind
	Title       string // short heading shown above the content
	Body        string // content under review (outline, draft), may be empty
	Prompt      string // the question itself
	Default     string // pre-filled answer for filename requests
	AllowRevise bool   // whether approval requests offer a revise option
}

// Response is the human's structured answer.
type Response struct {
	Kind     Kind
	Decision Decision // set for approval responses
	Text     string   // set for feedback and filename responses
}

// Validate checks that the response matches the request it answers.
// A mismatch is a protocol violation; the caller re-prompts.
func (r Response) Validate(req Request) error {
	if r.Kind != req.Kind {
		return fmt.Errorf("response kind %q does not match request kind %q", r.Kind, req.Kind)
	}
	switch req.Kind {
	case KindApproval:
		switch r.Decision {
		case DecisionApprove, DecisionAbort:
		case DecisionRevise:
			if !req.AllowRevise {
				return fmt.Errorf("revise is not an option for this request")
			}
		default:
			return fmt.Errorf("invalid approval decision: %q", r.Decision)
		}
	case KindFeedback, KindFilename:
		if r.Decision != DecisionAbort && r.Text == "" {
			return fmt.Errorf("%s response requires text", req.Kind)
		}
	default:
		return fmt.Errorf("unknown request kind: %q", req.Kind)
	}
	return nil
}

// Interactor is the bidirectional human boundary. Ask blocks until the human
// answers. An error means the channel to the human itself is broken (input
// stream closed, script exhausted); the controller treats it as an abort.
type Interactor interface {
	Ask(ctx context.Context, req Request) (Response, error)
}

// Scripted is an Interactor that replays a fixed sequence of responses.
// It records every request it receives, for assertions.
type Scripted struct {
	mu        sync.Mutex
	responses []Response
	requests  []Request
}

// NewScripted creates a scripted interactor that will answer with the given
// responses in order.
func NewScripted(responses ...Response) *Scripted {
	return &Scripted{responses: responses}
}

// Ask records the request and pops the next scripted response.
func (s *Scripted) Ask(ctx context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return Response{}, fmt.Errorf("script exhausted: no response for %s request %q", req.Kind, req.Title)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// Requests returns every request asked so far, in order.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
