// Package speech holds text-to-speech adapters. Synthesis itself is an
// external concern; these adapters only decide where spoken text goes.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/observability"
)

// LogSpeaker records what would have been spoken.
type LogSpeaker struct{}

func (LogSpeaker) Speak(ctx context.Context, text string) error {
	observability.LoggerFromContext(ctx).Debug("speak", "chars", len(text))
	return nil
}

// WriterSpeaker writes spoken text to w, one line per utterance. The
// terminal client uses it to hand text to an external TTS pipe.
type WriterSpeaker struct {
	W io.Writer
}

func (s WriterSpeaker) Speak(_ context.Context, text string) error {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(s.W, text)
	return err
}
