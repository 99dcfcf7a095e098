package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/zefanja/podcast2Anki/internal/anki"
	"github.com/zefanja/podcast2Anki/internal/config"
	"github.com/zefanja/podcast2Anki/internal/download"
	"github.com/zefanja/podcast2Anki/internal/episode"
	"github.com/zefanja/podcast2Anki/internal/feed"
	"github.com/zefanja/podcast2Anki/internal/gpodder"
	"github.com/zefanja/podcast2Anki/internal/transcript"
	"github.com/zefanja/podcast2Anki/pkg/file"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// PipelineService runs the full podcast-to-flashcards pipeline: sync
// listening history, download audio, submit pending transcripts as one
// batch job and turn the parsed results into an importable CSV.
type PipelineService struct {
	cfg  config.Config
	api  BatchAPI
	cron *cron.Cron
}

func NewPipelineService(cfg config.Config, api BatchAPI) *PipelineService {
	return &PipelineService{
		cfg: cfg,
		api: api,
	}
}

func NewRunnablePipelineService(cfg config.Config, api BatchAPI, cron *cron.Cron) *PipelineService {
	return &PipelineService{
		cfg:  cfg,
		api:  api,
		cron: cron,
	}
}

var singleflightGroup singleflight.Group

// Schedule registers the pipeline with the cron schedule from the
// configuration. Overlapping triggers collapse into one run.
func (s *PipelineService) Schedule(ctx context.Context) error {
	log.Info("Scheduling pipeline with cron expression %q", s.cfg.Pipeline.CronExpr)

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("run", func() (any, error) {
			if err := s.RunOnce(ctx); err != nil {
				log.Error("Pipeline run failed: %v", err)
			}
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cfg.Pipeline.CronExpr, runFunc)
	return err
}

// RunOnce executes one full pipeline pass.
func (s *PipelineService) RunOnce(ctx context.Context) error {
	data := s.cfg.Data
	if err := file.EnsureDirs(data.ResultsDir(), data.TranscriptDir(), data.EpisodeDir()); err != nil {
		return WrapError(err, ErrFileWrite, "failed to prepare data directories")
	}

	if s.cfg.Sync.Enabled() {
		if err := s.syncEpisodes(ctx); err != nil {
			// Stale metadata is still usable, keep going with what is on disk
			log.Error("Listening sync failed: %v", err)
		}
	} else {
		log.Debug("Listening sync not configured, skipping")
	}

	episodes, err := episode.LoadMetadata(data.MetadataFile())
	if err != nil {
		return WrapError(err, ErrFileRead, "failed to load episode metadata")
	}

	s.downloadEpisodes(ctx, episodes)

	return s.generateFlashcards(ctx, episodes)
}

// syncEpisodes pulls new fully-listened episodes from the sync service,
// enriches them from their podcast feeds and merges them into the
// metadata file.
func (s *PipelineService) syncEpisodes(ctx context.Context) error {
	data := s.cfg.Data

	var sincePtr *int64
	if s.cfg.Sync.All {
		log.Info("Full sync requested, ignoring saved watermark")
	} else {
		since, ok, err := gpodder.LoadLastTimestamp(data.TimestampFile())
		if err != nil {
			log.Warn("Ignoring unreadable timestamp file: %v", err)
			ok = false
		}
		if ok {
			sincePtr = &since
		}
	}

	client := gpodder.NewClient(s.cfg.Sync.APIURL, s.cfg.Sync.Username, s.cfg.Sync.Password)
	resp, err := client.EpisodeActions(ctx, sincePtr)
	if err != nil {
		return WrapError(err, ErrAPI, "failed to fetch episode actions")
	}

	listened := gpodder.FullyListened(resp.Actions)
	log.Info("Sync returned %d actions, %d fully listened", len(resp.Actions), len(listened))

	enricher := feed.NewEnricher()
	var synced []episode.Episode
	for _, action := range listened {
		date, err := gpodder.ListenedDate(action.Timestamp)
		if err != nil {
			log.Error("Skipping action with bad timestamp for %s: %v", action.Episode, err)
			continue
		}

		details, err := enricher.EpisodeDetails(ctx, action.Podcast, action.GUID)
		if err != nil {
			log.Error("Error fetching details for episode %s: %v", action.Episode, err)
			continue
		}

		synced = append(synced, episode.Episode{
			PodcastTitle:  details.PodcastTitle,
			PodcastAuthor: details.Author,
			EpisodeTitle:  details.EpisodeTitle,
			EpisodeID:     action.GUID,
			EpisodeURL:    action.Episode,
			Date:          date,
		})
	}

	existing := []episode.Episode{}
	if file.Exists(data.MetadataFile()) {
		existing, err = episode.LoadMetadata(data.MetadataFile())
		if err != nil {
			return WrapError(err, ErrFileRead, "failed to load existing metadata")
		}
	}

	merged := episode.Dedupe(append(existing, synced...))
	if err := episode.SaveMetadata(data.MetadataFile(), merged); err != nil {
		return WrapError(err, ErrFileWrite, "failed to save episode metadata")
	}
	log.Info("Successfully saved %d episodes to %s", len(merged), data.MetadataFile())

	if err := gpodder.SaveLastTimestamp(data.TimestampFile(), resp.Timestamp); err != nil {
		log.Warn("Failed to save sync timestamp: %v", err)
	}

	return nil
}

// downloadEpisodes fetches audio for episodes that have neither a local
// file nor a transcript yet. Failures are per-episode and non-fatal.
func (s *PipelineService) downloadEpisodes(ctx context.Context, episodes []episode.Episode) {
	downloader := download.NewDownloader(s.cfg.Data.EpisodeDir())
	transcripts := transcript.NewStore(s.cfg.Data.TranscriptDir())

	for _, ep := range episodes {
		if ep.EpisodeURL == "" {
			continue
		}
		if file.Exists(transcripts.Path(ep.EpisodeID)) {
			continue
		}
		if _, err := downloader.Fetch(ctx, ep.EpisodeURL, ep.EpisodeID); err != nil {
			log.Error("Failed to download episode %s: %v", ep.EpisodeID, err)
		}
	}
}

// generateFlashcards is the core batch stage: detect pending work, submit
// or resume one batch job, wait for it, parse its output and emit the CSV.
func (s *PipelineService) generateFlashcards(ctx context.Context, episodes []episode.Episode) error {
	data := s.cfg.Data

	resultStore := anki.NewResultStore(data.ResultsFile())
	results, err := resultStore.Load()
	if err != nil {
		return WrapError(err, ErrFileRead, "failed to load stored results")
	}

	transcripts := transcript.NewStore(data.TranscriptDir())
	pending, err := PendingTranscripts(episodes, results, transcripts)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}
	log.Info("Generating flashcards for %d new episodes...", len(pending))

	// Keep the detected transcript languages recorded on the episodes
	if err := episode.SaveMetadata(data.MetadataFile(), episodes); err != nil {
		log.Warn("Failed to record transcript languages: %v", err)
	}

	tracker := NewJobTracker(data.BatchIDFile())

	jobID, resuming, err := tracker.Load()
	if err != nil {
		return WrapError(err, ErrFileRead, "failed to load job handle")
	}
	if resuming {
		log.Info("Resuming batch %s from a previous run", jobID)
	} else {
		submitter := NewSubmitter(s.api, tracker, s.cfg.LLM.Model, s.cfg.LLM.Prompt, data.TasksFile())
		jobID, err = submitter.Submit(ctx, pending)
		if err != nil {
			return err
		}
		log.Info("Submitted batch %s for %d episodes", jobID, len(pending))
	}

	poller := NewPoller(s.api, s.cfg.Pipeline.PollInterval)
	outputFileID, err := poller.Wait(ctx, jobID)
	if err != nil {
		return err
	}

	fetcher := NewFetcher(s.api, tracker, data.BatchOutputFile())
	outputPath, err := fetcher.Fetch(ctx, outputFileID)
	if err != nil {
		return err
	}

	parsed, err := anki.ParseOutputFile(outputPath)
	if err != nil {
		return WrapError(err, ErrParse, "failed to parse batch output")
	}

	anki.Merge(results, parsed)
	if err := resultStore.Save(results); err != nil {
		return WrapError(err, ErrFileWrite, "failed to save results")
	}

	cards := anki.BuildFlashcards(episodes, results, time.Now())
	if err := anki.WriteCSV(data.FlashcardsFile(), cards); err != nil {
		return WrapError(err, ErrFileWrite, "failed to write flashcards")
	}

	return nil
}
