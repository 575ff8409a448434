// Package resolver resolves a video ID to its best audio-only rendition via
// the extraction library. Resolutions are cached briefly, coalesced across
// concurrent requests, and rate limited against the upstream.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ytdl "github.com/kkdai/youtube/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/BootlifeXu/youtube-server/internal/platform/cache"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

const (
	resolutionTTL = 5 * time.Minute
	resolvePerSec = 2
	resolveBurst  = 4
	defaultMime   = "audio/mpeg"
)

// AudioResolution is the playable result for one video ID. Ephemeral, never
// persisted.
type AudioResolution struct {
	PlayableURL     string `json:"playableUrl"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
	MimeType        string `json:"mimeType"`
	Bitrate         int    `json:"bitrate"`
}

// extractor is the slice of the extraction client we depend on.
type extractor interface {
	GetVideoContext(ctx context.Context, id string) (*ytdl.Video, error)
	GetStreamURLContext(ctx context.Context, video *ytdl.Video, format *ytdl.Format) (string, error)
}

// Resolver wraps the extraction library.
type Resolver struct {
	client  extractor
	cache   *cache.Cache[AudioResolution]
	group   singleflight.Group
	limiter *rate.Limiter
}

// New builds a resolver over a fresh extraction client.
func New() *Resolver {
	return &Resolver{
		client:  &ytdl.Client{},
		cache:   cache.New[AudioResolution](),
		limiter: rate.NewLimiter(rate.Limit(resolvePerSec), resolveBurst),
	}
}

// Resolve returns the best audio-only rendition for videoID. Concurrent calls
// for the same ID share one upstream resolution.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (AudioResolution, error) {
	if res, ok := r.cache.Get(videoID); ok {
		return res, nil
	}

	v, err, _ := r.group.Do(videoID, func() (any, error) {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := r.resolve(ctx, videoID)
		if err != nil {
			return nil, err
		}
		r.cache.Set(videoID, res, resolutionTTL)
		return res, nil
	})
	if err != nil {
		return AudioResolution{}, err
	}
	return v.(AudioResolution), nil
}

func (r *Resolver) resolve(ctx context.Context, videoID string) (AudioResolution, error) {
	video, err := r.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return AudioResolution{}, mapExtractError(videoID, err)
	}

	format := bestAudio(video.Formats)
	if format == nil {
		return AudioResolution{}, fmt.Errorf("no audio-only format for %s: %w", videoID, web.ErrNotFound)
	}

	streamURL, err := r.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return AudioResolution{}, fmt.Errorf("stream url for %s: %v: %w", videoID, err, web.ErrUpstream)
	}

	return AudioResolution{
		PlayableURL:     streamURL,
		Title:           video.Title,
		DurationSeconds: int(video.Duration.Seconds()),
		MimeType:        mimeOf(format),
		Bitrate:         format.Bitrate,
	}, nil
}

// bestAudio picks the audio-only format with the highest numeric bitrate.
// Ties, and the all-bitrates-absent case, keep the first format upstream
// returned.
func bestAudio(formats ytdl.FormatList) *ytdl.Format {
	audio := formats.Type("audio")

	var best *ytdl.Format
	for i := range audio {
		f := &audio[i]
		if strings.Contains(f.MimeType, "video") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func mimeOf(f *ytdl.Format) string {
	mime := f.MimeType
	if idx := strings.Index(mime, ";"); idx > 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if mime == "" {
		mime = defaultMime
	}
	return mime
}

// mapExtractError folds the library's failure modes into the gateway
// taxonomy: private/removed/bad-ID videos are NotFound, everything else is an
// upstream failure.
func mapExtractError(videoID string, err error) error {
	var playErr *ytdl.ErrPlayabiltyStatus
	switch {
	case errors.Is(err, ytdl.ErrVideoPrivate),
		errors.Is(err, ytdl.ErrInvalidCharactersInVideoID),
		errors.Is(err, ytdl.ErrVideoIDMinLength):
		return fmt.Errorf("video %s unavailable: %v: %w", videoID, err, web.ErrNotFound)
	case errors.As(err, &playErr):
		return fmt.Errorf("video %s unplayable (%s): %w", videoID, playErr.Reason, web.ErrNotFound)
	default:
		return fmt.Errorf("extract %s: %v: %w", videoID, err, web.ErrUpstream)
	}
}
