package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	ytdl "github.com/kkdai/youtube/v2"
	"golang.org/x/time/rate"

	"github.com/BootlifeXu/youtube-server/internal/platform/cache"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

type fakeExtractor struct {
	mu        sync.Mutex
	calls     int
	video     *ytdl.Video
	videoErr  error
	streamErr error
}

func (f *fakeExtractor) GetVideoContext(_ context.Context, _ string) (*ytdl.Video, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.video, nil
}

func (f *fakeExtractor) GetStreamURLContext(_ context.Context, _ *ytdl.Video, format *ytdl.Format) (string, error) {
	if f.streamErr != nil {
		return "", f.streamErr
	}
	return fmt.Sprintf("https://stream.example/%d", format.ItagNo), nil
}

func newTestResolver(fake *fakeExtractor) *Resolver {
	return &Resolver{
		client:  fake,
		cache:   cache.New[AudioResolution](),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func audioFormat(itag, bitrate int) ytdl.Format {
	return ytdl.Format{
		ItagNo:   itag,
		MimeType: `audio/webm; codecs="opus"`,
		Bitrate:  bitrate,
	}
}

func TestResolvePicksHighestBitrate(t *testing.T) {
	fake := &fakeExtractor{video: &ytdl.Video{
		ID:       "abc123def45",
		Title:    "A Song",
		Duration: 3*time.Minute + 25*time.Second,
		Formats: ytdl.FormatList{
			ytdl.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Bitrate: 500000},
			audioFormat(1, 64000),
			audioFormat(2, 128000),
			audioFormat(3, 96000),
		},
	}}
	r := newTestResolver(fake)

	res, err := r.Resolve(context.Background(), "abc123def45")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Bitrate != 128000 {
		t.Errorf("Bitrate = %d, want 128000", res.Bitrate)
	}
	if res.PlayableURL != "https://stream.example/2" {
		t.Errorf("PlayableURL = %q, want itag 2 stream", res.PlayableURL)
	}
	if res.Title != "A Song" {
		t.Errorf("Title = %q", res.Title)
	}
	if res.DurationSeconds != 205 {
		t.Errorf("DurationSeconds = %d, want 205", res.DurationSeconds)
	}
	if res.MimeType != "audio/webm" {
		t.Errorf("MimeType = %q, want audio/webm", res.MimeType)
	}
}

func TestResolveTieKeepsFirst(t *testing.T) {
	fake := &fakeExtractor{video: &ytdl.Video{
		Formats: ytdl.FormatList{
			audioFormat(10, 0),
			audioFormat(11, 0),
		},
	}}
	r := newTestResolver(fake)

	res, err := r.Resolve(context.Background(), "tietietie11")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.PlayableURL != "https://stream.example/10" {
		t.Errorf("PlayableURL = %q, want first format's stream", res.PlayableURL)
	}
}

func TestResolveNoAudioFormats(t *testing.T) {
	fake := &fakeExtractor{video: &ytdl.Video{
		Formats: ytdl.FormatList{
			ytdl.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E"`, Bitrate: 500000},
		},
	}}
	r := newTestResolver(fake)

	_, err := r.Resolve(context.Background(), "videoonly11")
	if !errors.Is(err, web.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolvePrivateVideo(t *testing.T) {
	fake := &fakeExtractor{videoErr: ytdl.ErrVideoPrivate}
	r := newTestResolver(fake)

	_, err := r.Resolve(context.Background(), "private1234")
	if !errors.Is(err, web.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	fake := &fakeExtractor{videoErr: errors.New("connection reset")}
	r := newTestResolver(fake)

	_, err := r.Resolve(context.Background(), "flaky123456")
	if !errors.Is(err, web.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestResolveStreamURLFailure(t *testing.T) {
	fake := &fakeExtractor{
		video:     &ytdl.Video{Formats: ytdl.FormatList{audioFormat(1, 64000)}},
		streamErr: errors.New("cipher failure"),
	}
	r := newTestResolver(fake)

	_, err := r.Resolve(context.Background(), "ciphered123")
	if !errors.Is(err, web.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestResolveCaches(t *testing.T) {
	fake := &fakeExtractor{video: &ytdl.Video{
		Formats: ytdl.FormatList{audioFormat(1, 64000)},
	}}
	r := newTestResolver(fake)

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "cached12345"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if fake.calls != 1 {
		t.Fatalf("extractor calls = %d, want 1 (cache hit)", fake.calls)
	}
}
