package workflow

import (
	"fmt"
	"strings"

	"github.com/quillhq/quill/internal/generate"
	"github.com/quillhq/quill/internal/search"
	"github.com/quillhq/quill/pkg/blackboard"
)

// Unit names double as blackboard writer IDs.
const (
	UnitOutline = "outline"
	UnitDraft   = "draft"
	UnitEdit    = "edit"
	UnitSocial  = "social"
)

// NewOutlineUnit builds the planning unit. Runs on the fast tier, optionally
// augmented with web search; codebase context and prior feedback are optional
// inputs, so planning proceeds in degraded mode without them.
func NewOutlineUnit(gen generate.Generator, searcher search.Searcher) *Unit {
	return &Unit{
		Name: UnitOutline,
		Inputs: []InputSlot{
			{Slot: blackboard.SlotCodebaseContext},
			{Slot: blackboard.SlotUserFeedback},
		},
		Output:    blackboard.SlotOutline,
		Tier:      generate.TierFast,
		MaxTokens: 2048,
		Generator: gen,
		Searcher:  searcher,
		Prompt:    outlinePrompt,
	}
}

// NewDraftUnit builds the drafting unit. Requires an approved outline; runs
// on the quality tier.
func NewDraftUnit(gen generate.Generator) *Unit {
	return &Unit{
		Name: UnitDraft,
		Inputs: []InputSlot{
			{Slot: blackboard.SlotOutline, Required: true},
			{Slot: blackboard.SlotCodebaseContext},
		},
		Output:    blackboard.SlotPost,
		Tier:      generate.TierQuality,
		MaxTokens: 8192,
		Generator: gen,
		Prompt:    draftPrompt,
	}
}

// NewEditUnit builds the revision unit. Requires the current draft and the
// human's feedback; invoked once per feedback cycle, never retry-wrapped.
func NewEditUnit(gen generate.Generator) *Unit {
	return &Unit{
		Name: UnitEdit,
		Inputs: []InputSlot{
			{Slot: blackboard.SlotPost, Required: true},
			{Slot: blackboard.SlotUserFeedback, Required: true},
		},
		Output:    blackboard.SlotPost,
		Tier:      generate.TierQuality,
		MaxTokens: 8192,
		Generator: gen,
		Prompt:    editPrompt,
	}
}

// NewSocialUnit builds the promotional-content unit.
func NewSocialUnit(gen generate.Generator) *Unit {
	return &Unit{
		Name: UnitSocial,
		Inputs: []InputSlot{
			{Slot: blackboard.SlotPost, Required: true},
		},
		Output:    blackboard.SlotSocialPosts,
		Tier:      generate.TierQuality,
		MaxTokens: 2048,
		Generator: gen,
		Prompt:    socialPrompt,
	}
}

func outlinePrompt(pc PromptContext) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a blog post outline in markdown for the topic: %s\n\n", pc.Topic)
	b.WriteString("Use markdown headings (#, ##) for every section. Cover motivation, core content sections, and a conclusion.\n")

	if ctx, ok := pc.Inputs[blackboard.SlotCodebaseContext]; ok {
		fmt.Fprintf(&b, "\nThe post is about this codebase:\n%s\n", ctx)
	}
	if fb, ok := pc.Inputs[blackboard.SlotUserFeedback]; ok {
		fmt.Fprintf(&b, "\nThe reader asked for these changes to the previous outline:\n%s\n", fb)
	}
	if len(pc.Results) > 0 {
		b.WriteString("\nBackground research:\n")
		for _, r := range pc.Results {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Snippet, r.URL)
		}
	}
	appendAttemptNote(&b, pc)

	return "You are an editorial planner. Respond with only the outline, in markdown.", b.String()
}

func draftPrompt(pc PromptContext) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete blog post on the topic: %s\n\n", pc.Topic)
	fmt.Fprintf(&b, "Follow this approved outline exactly:\n%s\n", pc.Inputs[blackboard.SlotOutline])

	if ctx, ok := pc.Inputs[blackboard.SlotCodebaseContext]; ok {
		fmt.Fprintf(&b, "\nGround technical details in this codebase:\n%s\n", ctx)
	}
	b.WriteString("\nWrite in markdown with headings. Aim for depth over length.\n")
	appendAttemptNote(&b, pc)

	return "You are a technical writer. Respond with only the article, in markdown.", b.String()
}

func editPrompt(pc PromptContext) (string, string) {
	var b strings.Builder
	b.WriteString("Revise the blog post below according to the reader's feedback. Keep everything that was not criticized.\n\n")
	fmt.Fprintf(&b, "Feedback:\n%s\n\n", pc.Inputs[blackboard.SlotUserFeedback])
	fmt.Fprintf(&b, "Current post:\n%s\n", pc.Inputs[blackboard.SlotPost])

	return "You are an editor. Respond with only the full revised article, in markdown.", b.String()
}

func socialPrompt(pc PromptContext) (string, string) {
	var b strings.Builder
	b.WriteString("Write three short social media posts promoting the article below: one professional, one casual, one that leads with a question. Separate them with blank lines.\n\n")
	fmt.Fprintf(&b, "Article:\n%s\n", pc.Inputs[blackboard.SlotPost])

	return "You are a social media copywriter.", b.String()
}

// appendAttemptNote folds the prior attempt's failure into the prompt so the
// unit can adapt instead of repeating the same mistake.
func appendAttemptNote(b *strings.Builder, pc PromptContext) {
	if pc.Attempt > 1 && pc.Note != "" {
		fmt.Fprintf(b, "\nThis is attempt %d. %s\n", pc.Attempt, pc.Note)
	}
}
