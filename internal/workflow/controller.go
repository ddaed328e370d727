package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/human"
	"github.com/quillhq/quill/internal/search"
	"github.com/quillhq/quill/internal/tools"
	"github.com/quillhq/quill/pkg/blackboard"
)

// Phase is one state of the workflow controller. Exactly one phase is active
// at a time; transitions happen only on retry-loop outcomes or human input.
type Phase string

const (
	PhaseInit                    Phase = "init"
	PhasePlanning                Phase = "planning"
	PhaseAwaitingOutlineApproval Phase = "awaiting_outline_approval"
	PhaseDrafting                Phase = "drafting"
	PhaseAwaitingReview          Phase = "awaiting_review"
	PhasePromotion               Phase = "promotion"
	PhaseExport                  Phase = "export"
	PhaseDone                    Phase = "done"
	PhaseAborted                 Phase = "aborted"
)

// writerHuman is the history writer ID for human-supplied slot values.
const writerHuman = "human"

// writerAnalyzer is the history writer ID for the codebase summarizer.
const writerAnalyzer = "codebase-analyzer"

// Options configures one workflow run.
type Options struct {
	Topic           string
	CodebasePath    string // directory to summarize; empty skips analysis
	AnalyzeCodebase bool
	MaxIterations   int    // retry bound for planning and drafting (default 3)
	DefaultFilename string // pre-filled export path
	RunID           string // assigned when empty; shared with a Redis-backed store
	Observer        Observer
}

// Controller is the top-level state machine that sequences the pipeline:
// codebase analysis, outline loop, human approval, draft loop, the unbounded
// human edit cycle, promotion, and export. No failure escapes it uncaught;
// every phase funnels failures into the taxonomy and decides the next phase,
// and nothing ends the run except an explicit human abort.
type Controller struct {
	store blackboard.Store
	hum   human.Interactor
	obs   Observer
	opts  Options
	runID string

	outline *Unit
	draft   *Unit
	edit    *Unit
	social  *Unit

	phase Phase
}

// NewController wires the pipeline's units against one blackboard.
func NewController(store blackboard.Store, hum human.Interactor, gen generate.Generator, searcher search.Searcher, opts Options) *Controller {
	if opts.MaxIterations < 1 {
		opts.MaxIterations = 3
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}

	return &Controller{
		store:   store,
		hum:     hum,
		obs:     opts.Observer,
		opts:    opts,
		runID:   opts.RunID,
		outline: NewOutlineUnit(gen, searcher),
		draft:   NewDraftUnit(gen),
		edit:    NewEditUnit(gen),
		social:  NewSocialUnit(gen),
		phase:   PhaseInit,
	}
}

// RunID identifies this run; RedisStore namespacing uses the same ID space.
func (c *Controller) RunID() string {
	return c.runID
}

// Phase returns the currently active phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Run drives the state machine to PhaseDone or PhaseAborted. Returns
// ErrRunAborted on human abort, nil on completion, and a plain error only
// when the human channel itself is broken.
func (c *Controller) Run(ctx context.Context) error {
	for {
		var next Phase
		var err error

		switch c.phase {
		case PhaseInit:
			next, err = c.runInit(ctx)
		case PhasePlanning:
			next, err = c.runPlanning(ctx)
		case PhaseAwaitingOutlineApproval:
			next, err = c.runOutlineApproval(ctx)
		case PhaseDrafting:
			next, err = c.runDrafting(ctx)
		case PhaseAwaitingReview:
			next, err = c.runReview(ctx)
		case PhasePromotion:
			next, err = c.runPromotion(ctx)
		case PhaseExport:
			next, err = c.runExport(ctx)
		case PhaseDone:
			return nil
		case PhaseAborted:
			return ErrRunAborted
		default:
			return fmt.Errorf("unknown phase: %q", c.phase)
		}

		if err != nil {
			c.phase = PhaseAborted
			return err
		}

		c.obs.Event("phase_transition", map[string]any{
			"run_id": c.runID,
			"from":   string(c.phase),
			"to":     string(next),
		})
		c.phase = next
	}
}

// ask sends a request to the human and re-prompts on malformed responses.
// A protocol violation is never fatal.
func (c *Controller) ask(ctx context.Context, req human.Request) (human.Response, error) {
	for {
		resp, err := c.hum.Ask(ctx, req)
		if err != nil {
			return human.Response{}, fmt.Errorf("human channel failed: %w", err)
		}
		if verr := resp.Validate(req); verr != nil {
			c.obs.Event("protocol_violation", map[string]any{
				"run_id": c.runID,
				"kind":   string(req.Kind),
				"error":  verr.Error(),
			})
			continue
		}
		return resp, nil
	}
}

// askRetryOrAbort surfaces a phase failure and asks whether to retry it.
func (c *Controller) askRetryOrAbort(ctx context.Context, title, detail string) (bool, error) {
	resp, err := c.ask(ctx, human.Request{
		Kind:   human.KindApproval,
		Title:  title,
		Body:   detail,
		Prompt: "Approve to retry this step, or abort the run.",
	})
	if err != nil {
		return false, err
	}
	return resp.Decision == human.DecisionApprove, nil
}

func (c *Controller) runInit(ctx context.Context) (Phase, error) {
	if c.opts.AnalyzeCodebase && c.opts.CodebasePath != "" {
		summary, err := tools.AnalyzeCodebase(c.opts.CodebasePath)
		if err != nil {
			// Codebase context is optional: surface the tool failure and
			// continue in degraded mode with the slot absent.
			c.obs.Event("tool_failure", map[string]any{
				"run_id": c.runID,
				"tool":   "analyze-codebase",
				"kind":   string(KindToolFailure),
				"error":  err.Error(),
			})
		} else if werr := c.store.Write(ctx, blackboard.SlotCodebaseContext, summary, writerAnalyzer); werr != nil {
			return PhaseAborted, werr
		}
	}
	return PhasePlanning, nil
}

func (c *Controller) runPlanning(ctx context.Context) (Phase, error) {
	loop := &RetryLoop{
		Unit:          c.outline,
		Gate:          OutlineGate(),
		MaxIterations: c.opts.MaxIterations,
		Observer:      c.obs,
	}
	outcome := loop.Run(ctx, c.store, c.opts.Topic)
	if outcome.Status == StatusSucceeded {
		return PhaseAwaitingOutlineApproval, nil
	}

	retry, err := c.askRetryOrAbort(ctx, "Outline generation failed",
		fmt.Sprintf("No valid outline after %d attempts.\nLast failure: %v", outcome.Iterations, outcome.LastErr))
	if err != nil {
		return PhaseAborted, err
	}
	if retry {
		return PhasePlanning, nil
	}
	return PhaseAborted, nil
}

func (c *Controller) runOutlineApproval(ctx context.Context) (Phase, error) {
	outline, err := c.store.Read(ctx, blackboard.SlotOutline)
	if err != nil {
		return PhaseAborted, fmt.Errorf("outline missing at approval: %w", err)
	}

	resp, err := c.ask(ctx, human.Request{
		Kind:        human.KindApproval,
		Title:       "Review the outline",
		Body:        outline,
		Prompt:      "Approve to start drafting, or request changes.",
		AllowRevise: true,
	})
	if err != nil {
		return PhaseAborted, err
	}

	switch resp.Decision {
	case human.DecisionApprove:
		return PhaseDrafting, nil
	case human.DecisionRevise:
		fb, err := c.ask(ctx, human.Request{
			Kind:   human.KindFeedback,
			Title:  "Outline changes",
			Prompt: "What should change in the outline?",
		})
		if err != nil {
			return PhaseAborted, err
		}
		if fb.Decision == human.DecisionAbort {
			return PhaseAborted, nil
		}
		if werr := c.store.Write(ctx, blackboard.SlotUserFeedback, fb.Text, writerHuman); werr != nil {
			return PhaseAborted, werr
		}
		return PhasePlanning, nil
	default:
		return PhaseAborted, nil
	}
}

func (c *Controller) runDrafting(ctx context.Context) (Phase, error) {
	loop := &RetryLoop{
		Unit:          c.draft,
		Gate:          DraftGate(),
		MaxIterations: c.opts.MaxIterations,
		Observer:      c.obs,
	}
	outcome := loop.Run(ctx, c.store, c.opts.Topic)
	if outcome.Status == StatusSucceeded {
		return PhaseAwaitingReview, nil
	}

	retry, err := c.askRetryOrAbort(ctx, "Draft generation failed",
		fmt.Sprintf("No valid draft after %d attempts.\nLast failure: %v", outcome.Iterations, outcome.LastErr))
	if err != nil {
		return PhaseAborted, err
	}
	if retry {
		return PhaseDrafting, nil
	}
	return PhaseAborted, nil
}

// runReview is the human edit cycle: unbounded, terminated only by approval
// or abort. Each feedback triggers a single best-effort edit invocation,
// never a retry loop.
func (c *Controller) runReview(ctx context.Context) (Phase, error) {
	post, err := c.store.Read(ctx, blackboard.SlotPost)
	if err != nil {
		return PhaseAborted, fmt.Errorf("draft missing at review: %w", err)
	}

	resp, err := c.ask(ctx, human.Request{
		Kind:        human.KindApproval,
		Title:       "Review the draft",
		Body:        post,
		Prompt:      "Approve to continue, or request changes.",
		AllowRevise: true,
	})
	if err != nil {
		return PhaseAborted, err
	}

	switch resp.Decision {
	case human.DecisionApprove:
		return PhasePromotion, nil
	case human.DecisionRevise:
		fb, err := c.ask(ctx, human.Request{
			Kind:   human.KindFeedback,
			Title:  "Draft changes",
			Prompt: "What should change in the draft?",
		})
		if err != nil {
			return PhaseAborted, err
		}
		if fb.Decision == human.DecisionAbort {
			return PhaseAborted, nil
		}
		if werr := c.store.Write(ctx, blackboard.SlotUserFeedback, fb.Text, writerHuman); werr != nil {
			return PhaseAborted, werr
		}

		if eerr := c.edit.Execute(ctx, c.store, Invocation{Topic: c.opts.Topic, Attempt: 1}); eerr != nil {
			// Single best-effort attempt: surface the failure and return to
			// review with the draft unchanged. The human can try again.
			c.obs.Event("edit_failed", map[string]any{
				"run_id": c.runID,
				"kind":   string(KindOf(eerr)),
				"error":  eerr.Error(),
			})
		}
		return PhaseAwaitingReview, nil
	default:
		return PhaseAborted, nil
	}
}

func (c *Controller) runPromotion(ctx context.Context) (Phase, error) {
	err := c.social.Execute(ctx, c.store, Invocation{Topic: c.opts.Topic, Attempt: 1})
	if err == nil {
		return PhaseExport, nil
	}

	retry, aerr := c.askRetryOrAbort(ctx, "Promotional content failed",
		fmt.Sprintf("Social post generation failed: %v", err))
	if aerr != nil {
		return PhaseAborted, aerr
	}
	if retry {
		return PhasePromotion, nil
	}
	return PhaseAborted, nil
}

func (c *Controller) runExport(ctx context.Context) (Phase, error) {
	post, err := c.store.Read(ctx, blackboard.SlotPost)
	if err != nil {
		return PhaseAborted, fmt.Errorf("draft missing at export: %w", err)
	}

	filename := c.opts.DefaultFilename
	for {
		resp, err := c.ask(ctx, human.Request{
			Kind:    human.KindFilename,
			Title:   "Export the post",
			Prompt:  "Where should the final article be written?",
			Default: filename,
		})
		if err != nil {
			return PhaseAborted, err
		}
		if resp.Decision == human.DecisionAbort {
			return PhaseAborted, nil
		}
		filename = resp.Text

		overwrite := false
		if tools.FileExists(filename) {
			confirm, err := c.ask(ctx, human.Request{
				Kind:   human.KindApproval,
				Title:  "File exists",
				Prompt: fmt.Sprintf("Approve to overwrite %s, or abort to pick another name.", filename),
			})
			if err != nil {
				return PhaseAborted, err
			}
			if confirm.Decision != human.DecisionApprove {
				// Re-prompt for a different filename instead of ending the run.
				continue
			}
			overwrite = true
		}

		if werr := tools.SaveToFile(post, filename, overwrite); werr != nil {
			// Write failure is a tool failure: re-prompt for an alternate
			// path rather than aborting the run.
			c.obs.Event("tool_failure", map[string]any{
				"run_id": c.runID,
				"tool":   "save-to-file",
				"kind":   string(KindToolFailure),
				"error":  werr.Error(),
			})
			continue
		}

		c.obs.Event("exported", map[string]any{
			"run_id":   c.runID,
			"filename": filename,
		})
		return PhaseDone, nil
	}
}
