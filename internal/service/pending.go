package service

import (
	"github.com/zefanja/podcast2Anki/internal/episode"
	"github.com/zefanja/podcast2Anki/internal/transcript"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// PendingTranscripts computes the episodes that are ready for
// summarization: listed in the metadata, absent from the stored results
// and already transcribed. Episodes without a transcript are skipped
// silently, they are picked up on a later run once the transcript exists.
// The detected transcript language is recorded on the episode in place,
// the caller persists the updated metadata.
func PendingTranscripts(
	episodes []episode.Episode,
	results map[string][]string,
	transcripts *transcript.Store,
) (map[string]string, error) {
	missing := 0
	pending := make(map[string]string)

	for i := range episodes {
		ep := &episodes[i]
		if _, done := results[ep.EpisodeID]; done {
			continue
		}
		missing++

		text, ok, err := transcripts.Load(ep.EpisodeID)
		if err != nil {
			return nil, WrapError(err, ErrFileRead, "failed to load transcript")
		}
		if !ok {
			log.Debug("Transcript for episode %s not found yet", ep.EpisodeID)
			continue
		}

		lang := transcript.DetectLanguage(text)
		if ep.Language == "" {
			ep.Language = lang.String()
		}
		log.Info("Episode %s transcript language: %s", ep.EpisodeID, lang)
		pending[ep.EpisodeID] = text
	}

	if missing > 0 {
		log.Info("Missing results for %d episodes", missing)
	} else {
		log.Info("All episodes have AI-generated results.")
	}

	return pending, nil
}
