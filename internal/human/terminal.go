package human

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/quillhq/quill/internal/printer"
)

// Terminal is an Interactor backed by interactive terminal forms.
type Terminal struct{}

// NewTerminal creates the interactive terminal interactor.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Ask renders the request as a form and blocks until answered. Ctrl+C maps
// to an abort decision rather than an error, so a run always ends through
// the controller's abort path.
func (t *Terminal) Ask(ctx context.Context, req Request) (Response, error) {
	if req.Body != "" {
		printer.Divider()
		printer.Println(req.Body)
		printer.Divider()
	}

	switch req.Kind {
	case KindApproval:
		return t.askApproval(ctx, req)
	case KindFeedback:
		return t.askFeedback(ctx, req)
	case KindFilename:
		return t.askFilename(ctx, req)
	default:
		return Response{}, fmt.Errorf("unknown request kind: %q", req.Kind)
	}
}

func (t *Terminal) askApproval(ctx context.Context, req Request) (Response, error) {
	options := []huh.Option[string]{
		huh.NewOption("Approve", string(DecisionApprove)),
	}
	if req.AllowRevise {
		options = append(options, huh.NewOption("Request changes", string(DecisionRevise)))
	}
	options = append(options, huh.NewOption("Abort the run", string(DecisionAbort)))

	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(req.Title).
			Description(req.Prompt).
			Options(options...).
			Value(&choice),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Response{Kind: KindApproval, Decision: DecisionAbort}, nil
		}
		return Response{}, fmt.Errorf("approval form failed: %w", err)
	}

	return Response{Kind: KindApproval, Decision: Decision(choice)}, nil
}

func (t *Terminal) askFeedback(ctx context.Context, req Request) (Response, error) {
	var text string
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(req.Title).
			Description(req.Prompt).
			Placeholder("Describe what should change...").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("feedback cannot be empty")
				}
				return nil
			}).
			Value(&text),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Response{Kind: KindFeedback, Decision: DecisionAbort}, nil
		}
		return Response{}, fmt.Errorf("feedback form failed: %w", err)
	}

	return Response{Kind: KindFeedback, Text: strings.TrimSpace(text)}, nil
}

func (t *Terminal) askFilename(ctx context.Context, req Request) (Response, error) {
	text := req.Default
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(req.Title).
			Description(req.Prompt).
			Placeholder("posts/my-article.md").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("filename is required")
				}
				return nil
			}).
			Value(&text),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Response{Kind: KindFilename, Decision: DecisionAbort}, nil
		}
		return Response{}, fmt.Errorf("filename form failed: %w", err)
	}

	return Response{Kind: KindFilename, Text: strings.TrimSpace(text)}, nil
}
