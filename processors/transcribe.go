package processors

import (
	"context"
	"strings"

	"github.com/abadojack/whatlanggo"
	"go.uber.org/zap"

	"mediainsight/core"
)

// repetitionThreshold is the minimum number of distinct words a transcript
// needs before it is considered meaningful.
const repetitionThreshold = 5

// Engine turns normalized audio into a TranscriptResult: a first whisper pass,
// an optional corrective pass forced to a hinted language, and a repetition
// filter that discards degenerate output.
type Engine struct {
	stt Transcriber
	log *zap.SugaredLogger
}

func NewEngine(stt Transcriber, log *zap.SugaredLogger) *Engine {
	return &Engine{stt: stt, log: log}
}

// Run transcribes audioPath. title feeds the language-hint heuristic together
// with the pass-1 transcript. A failed pass-1 call is a TranscriptionError; a
// failed pass-2 call keeps the pass-1 transcript.
func (e *Engine) Run(ctx context.Context, audioPath, title string) (core.TranscriptResult, error) {
	text, lang, err := e.stt.Transcribe(ctx, audioPath, "")
	if err != nil {
		return core.TranscriptResult{}, &core.TranscriptionError{Err: err}
	}
	if lang == "" && text != "" {
		lang = whatlanggo.DetectLang(text).Iso6391()
	}
	result := core.TranscriptResult{Text: text, Language: lang, Pass: 1}
	e.log.Infof("pass-1 transcript: lang=%s words=%d", lang, wordCount(text))

	if hint := detectLanguageHint(title, text); hint != "" && hint != lang {
		e.log.Infof("language hint %s differs from detected %s, re-transcribing", hint, lang)
		hinted, hintedLang, err := e.stt.Transcribe(ctx, audioPath, hint)
		if err != nil {
			e.log.Warnf("hinted re-transcription failed, keeping pass-1 output: %v", err)
		} else if wordCount(hinted) > wordCount(result.Text) {
			// Accept the corrective pass only when it yields strictly more
			// words; a forced language that produced less text is treated as
			// a wrong guess.
			if hintedLang == "" {
				hintedLang = hint
			}
			result = core.TranscriptResult{Text: hinted, Language: hintedLang, Pass: 2}
			e.log.Infof("pass-2 transcript accepted: lang=%s words=%d", hintedLang, wordCount(hinted))
		} else {
			e.log.Infof("pass-2 transcript rejected: no improvement over pass 1")
		}
	}

	if isRepetitive(result.Text) {
		e.log.Warnf("transcript is repetitive, discarding")
		result.Text = ""
		result.Discarded = true
	}
	return result, nil
}

// isRepetitive flags transcripts whose distinct-word count falls below the
// threshold, which whisper produces on unintelligible audio.
func isRepetitive(text string) bool {
	distinct := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		distinct[strings.ToLower(w)] = struct{}{}
	}
	return len(distinct) < repetitionThreshold
}

func wordCount(s string) int { return len(strings.Fields(s)) }
