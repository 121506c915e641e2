package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-carousel-bot/internal/config"
	"ai-carousel-bot/internal/constant"
	"ai-carousel-bot/internal/dto"
	"ai-carousel-bot/internal/repository/memory"
	"ai-carousel-bot/pkg/recordstore"
	"ai-carousel-bot/pkg/store"
	"ai-carousel-bot/pkg/watermark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carouselDocJSON = `{
  "meta_info": {"topic": "границы"},
  "slides": [
    {"type": "cover", "title": "Почему важны границы", "subtitle": "5 причин", "visual_idea": "спокойный портрет"},
    {"title": "Причина первая", "content": ["первый тезис", "второй тезис"]},
    {"type": "final", "title": "Подведём итог", "content": ["главный вывод"], "call_to_action": "Сохраните пост"}
  ]
}`

const infographicDocJSON = `{
  "captivity_heading": "Как пережить стресс",
  "tips": ["Дышите глубже", "Спите больше"]
}`

type generationFixture struct {
	service   *generationService
	transport *fakeTransport
	text      *fakeTextProvider
	images    *fakeImageProvider
	records   *fakeRecordStore
	sessions  *memory.SessionRepository
	bgStore   *memory.BackgroundStore
	server    *httptest.Server
}

// newGenerationFixture stands up an HTTP server that plays both roles the
// pipeline reaches over the network: probing the background URL and
// downloading rendered images. Paths under /missing return 404.
func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) >= 8 && r.URL.Path[:8] == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("not really a png"))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Generation.TextMaxRetries = 1
	cfg.Generation.ImageMaxRetries = 1
	cfg.Generation.RetryBackoff = time.Millisecond
	cfg.Generation.PostTemperature = 1.0

	transport := &fakeTransport{}
	text := &fakeTextProvider{Text: carouselDocJSON}
	images := &fakeImageProvider{BaseURL: server.URL}
	records := newFakeRecordStore()
	sessions := memory.NewSessionRepository()
	bgStore := memory.NewBackgroundStore("")
	require.NoError(t, bgStore.Set(server.URL+"/bg.png"))

	svc := NewGenerationService(nil, cfg, nopLogger{}, transport, sessions, bgStore, text, images, records, nil)

	return &generationFixture{
		service:   svc.(*generationService),
		transport: transport,
		text:      text,
		images:    images,
		records:   records,
		sessions:  sessions,
		bgStore:   bgStore,
		server:    server,
	}
}

func carouselJob() dto.JobMessage {
	return dto.JobMessage{
		JobID:             "job-1",
		UserID:            1,
		ChatID:            10,
		Kind:              dto.JobKindCarousel,
		Topic:             "границы",
		ReferenceImageURL: "https://files.example.com/photo.jpg",
		SlideCount:        3,
	}
}

func TestRunCarouselDeliversAndPersists(t *testing.T) {
	f := newGenerationFixture(t)

	f.service.runCarousel(context.Background(), carouselJob())

	require.Len(t, f.images.Inputs, 3)
	// Cover uses the user's photo, the rest the shared background.
	assert.Equal(t, []string{"https://files.example.com/photo.jpg"}, f.images.Inputs[0].ImageInputs)
	assert.Equal(t, []string{f.server.URL + "/bg.png"}, f.images.Inputs[1].ImageInputs)
	assert.Equal(t, []string{f.server.URL + "/bg.png"}, f.images.Inputs[2].ImageInputs)

	require.Len(t, f.transport.Images, 3)
	assert.Equal(t, "Слайд 1", f.transport.Images[0].Caption)
	assert.Equal(t, "slide_3.png", f.transport.Images[2].Filename)

	assert.Equal(t, 1, f.records.Creates)
	fields := f.records.Records["rec1"]
	assert.Equal(t, "границы", fields[recordstore.FieldTopic])
	assert.Contains(t, fields, recordstore.SlidePromptField(1))

	session, found := f.sessions.Get(1)
	require.True(t, found)
	assert.Empty(t, session.ActiveJobID)
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
	require.NotNil(t, session.LastCarousel)
	assert.Equal(t, "rec1", session.LastCarousel.RecordID)
	assert.Equal(t, 3, session.LastCarousel.SlideCount)
	assert.Equal(t, store.RegenSlide, session.Regen.Kind)
	assert.Contains(t, f.transport.Texts, constant.MsgCarouselDone)
}

func TestRunCarouselPartialFailure(t *testing.T) {
	f := newGenerationFixture(t)
	f.images.FailOn = map[int]bool{2: true}

	f.service.runCarousel(context.Background(), carouselJob())

	// The failed slide is reported and skipped, the run keeps going.
	assert.Contains(t, f.transport.Texts, fmt.Sprintf(constant.MsgSlideFailedFmt, 2))
	assert.Len(t, f.transport.Images, 2)

	assert.Equal(t, 1, f.records.Creates)
	fields := f.records.Records["rec1"]
	assert.NotContains(t, fields, recordstore.SlideImageField(2))
	assert.Contains(t, fields, recordstore.SlidePromptField(2))

	session, _ := f.sessions.Get(1)
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
}

func TestRunCarouselBackgroundFallback(t *testing.T) {
	f := newGenerationFixture(t)
	require.NoError(t, f.bgStore.Set(f.server.URL+"/missing/bg.png"))

	f.service.runCarousel(context.Background(), carouselJob())

	require.Len(t, f.images.Inputs, 3)
	// Interior slides fall back to text-to-image when the background is gone.
	assert.Equal(t, []string{"https://files.example.com/photo.jpg"}, f.images.Inputs[0].ImageInputs)
	assert.Empty(t, f.images.Inputs[1].ImageInputs)
	assert.Empty(t, f.images.Inputs[2].ImageInputs)
	assert.Len(t, f.transport.Images, 3)
}

func TestRunCarouselStructureFailure(t *testing.T) {
	f := newGenerationFixture(t)
	f.text.Err = assert.AnError

	f.service.runCarousel(context.Background(), carouselJob())

	assert.Contains(t, f.transport.Texts, constant.MsgStructureFailed)
	assert.Empty(t, f.images.Inputs)
	assert.Equal(t, 0, f.records.Creates)

	session, _ := f.sessions.Get(1)
	assert.Equal(t, store.AwaitingNothing, session.Awaiting)
	assert.Nil(t, session.LastCarousel)
}

func TestRunCarouselRecordFailureIsSwallowed(t *testing.T) {
	f := newGenerationFixture(t)
	f.records.CreateErr = assert.AnError

	f.service.runCarousel(context.Background(), carouselJob())

	assert.Len(t, f.transport.Images, 3)
	session, _ := f.sessions.Get(1)
	require.NotNil(t, session.LastCarousel)
	assert.Empty(t, session.LastCarousel.RecordID)
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
}

func TestRunInfographicStandalone(t *testing.T) {
	f := newGenerationFixture(t)
	f.text.Text = infographicDocJSON

	f.service.runInfographic(context.Background(), dto.JobMessage{
		JobID:  "job-2",
		UserID: 1,
		ChatID: 10,
		Kind:   dto.JobKindInfographicStandalone,
		Topic:  "стресс",
	}, true)

	require.Len(t, f.images.Inputs, 1)
	assert.Contains(t, f.images.Inputs[0].Prompt, "Как пережить стресс")
	assert.Contains(t, f.images.Inputs[0].Prompt, "Дышите глубже")

	require.Len(t, f.transport.Images, 1)
	assert.Equal(t, "infographic.png", f.transport.Images[0].Filename)

	assert.Equal(t, 1, f.records.Creates)
	session, _ := f.sessions.Get(1)
	require.NotNil(t, session.LastInfographic)
	assert.Equal(t, "rec1", session.LastInfographic.RecordID)
	assert.Equal(t, store.RegenInfographic, session.Regen.Kind)
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
}

func TestRunInfographicFromCarouselUpdatesRecord(t *testing.T) {
	f := newGenerationFixture(t)
	f.records.Records["rec1"] = recordstore.Fields{recordstore.FieldTopic: "границы"}

	session := f.sessions.GetOrCreate(1, 10)
	session.LastCarousel = &store.CarouselContext{Topic: "границы", RecordID: "rec1"}

	f.service.runInfographic(context.Background(), dto.JobMessage{
		JobID:  "job-3",
		UserID: 1,
		ChatID: 10,
		Kind:   dto.JobKindInfographicFromCarousel,
		Topic:  "границы",
	}, false)

	assert.Equal(t, 0, f.records.Creates)
	assert.Equal(t, 1, f.records.Updates)
	assert.Contains(t, f.records.Records["rec1"], recordstore.FieldInfographicPrompt)
	assert.Equal(t, "rec1", session.LastInfographic.RecordID)
}

func TestRunPostFromCarousel(t *testing.T) {
	f := newGenerationFixture(t)
	f.text.Text = "Вот пост:\n\n**Главная мысль** простыми словами."
	f.records.Records["rec1"] = recordstore.Fields{recordstore.FieldTopic: "границы"}

	session := f.sessions.GetOrCreate(1, 10)
	session.LastCarousel = &store.CarouselContext{Topic: "границы", RecordID: "rec1"}

	f.service.runPost(context.Background(), dto.JobMessage{
		JobID:  "job-4",
		UserID: 1,
		ChatID: 10,
		Kind:   dto.JobKindPost,
		Topic:  "границы",
	})

	require.Len(t, f.transport.HTML, 1)
	// Intro phrase and markdown are stripped before delivery.
	assert.Equal(t, "Главная мысль простыми словами.", f.transport.HTML[0])

	assert.Equal(t, "Главная мысль простыми словами.", f.records.Records["rec1"][recordstore.FieldPostText])
	require.NotNil(t, session.LastPost)
	assert.True(t, session.LastPost.FromCarousel)
	assert.Equal(t, store.RegenPost, session.Regen.Kind)
}

func TestRunPostStandaloneCreatesRecord(t *testing.T) {
	f := newGenerationFixture(t)
	f.text.Text = "Короткий пост о выгорании."

	f.service.runPost(context.Background(), dto.JobMessage{
		JobID:  "job-5",
		UserID: 1,
		ChatID: 10,
		Kind:   dto.JobKindPostStandalone,
		Topic:  "выгорание",
	})

	assert.Equal(t, 1, f.records.Creates)
	fields := f.records.Records["rec1"]
	assert.Equal(t, "выгорание", fields[recordstore.FieldTopic])
	assert.Equal(t, "Короткий пост о выгорании.", fields[recordstore.FieldPostText])
	assert.Equal(t, 1.0, f.text.LastOpts.Temperature)

	session, _ := f.sessions.Get(1)
	assert.False(t, session.LastPost.FromCarousel)
}

func TestRunRegenSlideWithStoredPrompt(t *testing.T) {
	f := newGenerationFixture(t)
	f.records.Records["rec1"] = recordstore.Fields{
		recordstore.SlidePromptField(2): "отредактированный промпт",
	}

	session := f.sessions.GetOrCreate(1, 10)
	session.LastCarousel = &store.CarouselContext{
		Topic:      "границы",
		Prompts:    map[int]string{2: "старый промпт"},
		Images:     map[int]string{},
		SlideCount: 3,
		RecordID:   "rec1",
	}

	f.service.runRegenSlide(context.Background(), dto.JobMessage{
		JobID:           "job-6",
		UserID:          1,
		ChatID:          10,
		Kind:            dto.JobKindRegenSlide,
		SlideNumber:     2,
		UseStoredPrompt: true,
	})

	require.Len(t, f.images.Inputs, 1)
	assert.Equal(t, "отредактированный промпт", f.images.Inputs[0].Prompt)
	assert.Len(t, f.transport.Images, 1)

	assert.Equal(t, "отредактированный промпт", session.LastCarousel.Prompts[2])
	assert.Equal(t, 1, f.records.Updates)
	assert.Contains(t, f.records.Records["rec1"], recordstore.SlideImageField(2))
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
}

func TestRunRegenSlideStoredPromptMissing(t *testing.T) {
	f := newGenerationFixture(t)
	f.records.Records["rec1"] = recordstore.Fields{recordstore.FieldTopic: "границы"}

	session := f.sessions.GetOrCreate(1, 10)
	session.LastCarousel = &store.CarouselContext{
		Prompts:    map[int]string{},
		Images:     map[int]string{},
		SlideCount: 3,
		RecordID:   "rec1",
	}

	f.service.runRegenSlide(context.Background(), dto.JobMessage{
		JobID:           "job-7",
		UserID:          1,
		ChatID:          10,
		Kind:            dto.JobKindRegenSlide,
		SlideNumber:     2,
		UseStoredPrompt: true,
	})

	assert.Contains(t, f.transport.Texts, constant.MsgPromptMissing)
	assert.Empty(t, f.images.Inputs)
	assert.Equal(t, store.AwaitingInlineEditedPrompt, session.Awaiting)
}

func TestRunRegenPostInline(t *testing.T) {
	f := newGenerationFixture(t)
	f.text.Text = "Переписанный пост."
	f.records.Records["rec1"] = recordstore.Fields{}

	session := f.sessions.GetOrCreate(1, 10)
	session.LastPost = &store.PostContext{Topic: "границы", FromCarousel: true, RecordID: "rec1"}

	f.service.runRegenPost(context.Background(), dto.JobMessage{
		JobID:  "job-8",
		UserID: 1,
		ChatID: 10,
		Kind:   dto.JobKindRegenPost,
		Prompt: "сделай пост короче",
	})

	require.Len(t, f.text.Prompts, 1)
	assert.Equal(t, "сделай пост короче", f.text.Prompts[0])
	assert.Equal(t, constant.PostFromCarouselSystemPrompt, f.text.Systems[0])
	assert.Equal(t, "Переписанный пост.", session.LastPost.Text)
	assert.Equal(t, "Переписанный пост.", f.records.Records["rec1"][recordstore.FieldPostText])
	assert.Equal(t, store.AwaitingRegenerateYesNo, session.Awaiting)
}

func TestStampPolicy(t *testing.T) {
	tests := []struct {
		n, total int
		pos      watermark.Position
		light    bool
	}{
		{1, 5, watermark.PositionTopLeft, true},
		{2, 5, watermark.PositionBottomRight, false},
		{4, 5, watermark.PositionBottomRight, false},
		{5, 5, watermark.PositionNone, false},
		{1, 1, watermark.PositionTopLeft, true},
	}
	for _, tt := range tests {
		pos, light := stampPolicy(tt.n, tt.total)
		assert.Equal(t, tt.pos, pos, "slide %d of %d", tt.n, tt.total)
		assert.Equal(t, tt.light, light, "slide %d of %d", tt.n, tt.total)
	}
}
