package processors

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mediainsight/config"
	"mediainsight/core"
)

// transcriptPromptChars bounds how much transcript the synthesis prompt
// carries; songSheetChars bounds the song-sheet variant.
const (
	transcriptPromptChars = 1500
	songSheetChars        = 3000
)

// taskPrompts maps each content category to its task instruction. The table is
// immutable; validateTables checks it covers every category at startup.
var taskPrompts = map[core.ContentCategory]string{
	core.CategorySong:      "Extract full lyrics from this media. If possible, also estimate the musical structure (intro, verse, chorus, bridge).",
	core.CategoryCooking:   "Summarize the cooking recipe. Mention ingredients and steps.",
	core.CategoryLecture:   "Summarize the key points explained in this lecture.",
	core.CategoryInterview: "List who is speaking and summarize what they say.",
	core.CategoryVlog:      "Describe what the person is doing and where they are.",
}

// visualOnlyPrompt replaces the selected instruction whenever the transcript
// was empty or discarded, regardless of category.
const visualOnlyPrompt = "The transcript was unreliable. Based on visuals only, describe what is happening in this video."

// songSheetPrompt drives the specialized lyrics/chords handler.
const songSheetPrompt = "This is a transcript of a song. Format it as a song sheet.\n" +
	"Add appropriate line breaks and sections (like Verse, Chorus, Bridge).\n" +
	"If possible, infer common chord progressions and place chords above lyrics.\n" +
	"Only use chords like [C], [G], [Am], [F], etc. where they make musical sense.\n" +
	"If unsure, leave that part without chords."

// chordTip is appended when a song answer never mentions chords.
const chordTip = "\n\nTip: for accurate chords, search online for \"[song name] chords\"."

// truncationMarker flags answers cut at the output budget.
const truncationMarker = "...\n[Truncated]"

// Synthesizer builds the final prompt from visual summary, task instruction,
// and transcript, and runs one completion. A failure is terminal; there is no
// retry.
type Synthesizer struct {
	llm            CompletionModel
	maxOutputChars int
	log            *zap.SugaredLogger
}

func NewSynthesizer(llm CompletionModel, cfg *config.Config, log *zap.SugaredLogger) *Synthesizer {
	return &Synthesizer{llm: llm, maxOutputChars: cfg.MaxOutputChars, log: log}
}

// SelectPrompt picks the task instruction for a category, overriding with the
// visual-only variant when no transcript survived.
func SelectPrompt(category core.ContentCategory, query string, transcriptEmpty bool) string {
	if transcriptEmpty {
		return visualOnlyPrompt
	}
	if p, ok := taskPrompts[category]; ok {
		return p
	}
	return "Based on the transcript and visuals, respond to:\n" + query
}

// Synthesize runs the final completion and truncates the answer to the output
// budget, marking truncation explicitly.
func (s *Synthesizer) Synthesize(ctx context.Context, visualSummary, instruction, transcript string) (string, bool, error) {
	var parts []string
	if visualSummary != "" {
		bullets := make([]string, 0)
		for _, d := range strings.Split(visualSummary, "\n\n") {
			if strings.TrimSpace(d) != "" {
				bullets = append(bullets, "- "+d)
			}
		}
		parts = append(parts, "These are visual observations from the media:\n"+strings.Join(bullets, "\n"))
	}
	if transcript != "" {
		parts = append(parts, "The transcript of the audio is:\n"+truncateChars(transcript, transcriptPromptChars))
	}
	parts = append(parts, instruction)

	answer, err := s.llm.Complete(ctx, strings.Join(parts, "\n\n"))
	if err != nil {
		return "", false, &core.SynthesisError{Err: err}
	}

	out, truncated := s.truncate(answer)
	return out, truncated, nil
}

// SynthesizeSongSheet is the specialized lyrics/chords path: it skips
// classification and formats the transcript directly as a song sheet.
func (s *Synthesizer) SynthesizeSongSheet(ctx context.Context, transcript string) (string, bool, error) {
	prompt := fmt.Sprintf("%s\n\nTranscript:\n%s", songSheetPrompt, truncateChars(transcript, songSheetChars))
	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", false, &core.SynthesisError{Err: err}
	}
	out, truncated := s.truncate(answer)
	return out, truncated, nil
}

// WithChordTip appends the chord-lookup tip to song answers that never mention
// chords.
func WithChordTip(answer string) string {
	if strings.Contains(strings.ToLower(answer), "chord") {
		return answer
	}
	return answer + chordTip
}

func (s *Synthesizer) truncate(answer string) (string, bool) {
	if len(answer) <= s.maxOutputChars {
		return answer, false
	}
	s.log.Infof("answer truncated from %d to %d chars", len(answer), s.maxOutputChars)
	return answer[:s.maxOutputChars] + truncationMarker, true
}
