package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ai-carousel-bot/internal/config"
	"ai-carousel-bot/internal/constant"
	"ai-carousel-bot/internal/dto"
	"ai-carousel-bot/internal/pkg/logger"
	"ai-carousel-bot/internal/repository/memory"
	"ai-carousel-bot/pkg/imagegen"
	"ai-carousel-bot/pkg/llm"
	"ai-carousel-bot/pkg/prompt"
	"ai-carousel-bot/pkg/recordstore"
	"ai-carousel-bot/pkg/sanitize"
	"ai-carousel-bot/pkg/store"
	"ai-carousel-bot/pkg/watermark"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IGenerationService interface {
	Consume(ctx context.Context) error
}

// generationService runs the generation pipelines off the job bus. One
// message is one job; the conversation side guarantees at most one in-flight
// job per user, so pipelines never race on a session.
type generationService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	cfg         *config.Config
	logger      logger.ILogger
	transport   ChatTransport
	sessions    *memory.SessionRepository
	backgrounds *memory.BackgroundStore
	text        llm.TextProvider
	images      imagegen.Provider
	records     recordstore.Store
	stamper     *watermark.Stamper

	probeClient    *http.Client
	downloadClient *http.Client
}

func NewGenerationService(
	pubSub *gochannel.GoChannel,
	cfg *config.Config,
	log logger.ILogger,
	transport ChatTransport,
	sessions *memory.SessionRepository,
	backgrounds *memory.BackgroundStore,
	text llm.TextProvider,
	images imagegen.Provider,
	records recordstore.Store,
	stamper *watermark.Stamper,
) IGenerationService {
	return &generationService{
		pubSub:         pubSub,
		topicName:      cfg.App.JobTopicName,
		cfg:            cfg,
		logger:         log,
		transport:      transport,
		sessions:       sessions,
		backgrounds:    backgrounds,
		text:           text,
		images:         images,
		records:        records,
		stamper:        stamper,
		probeClient:    &http.Client{Timeout: 5 * time.Second},
		downloadClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (gs *generationService) Consume(ctx context.Context) error {
	messages, err := gs.pubSub.Subscribe(ctx, gs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			gs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (gs *generationService) processMessage(ctx context.Context, msg *message.Message) {
	var job dto.JobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to unmarshal job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	gs.logger.Info("GENERATION_SERVICE", "job started", map[string]interface{}{
		"job_id": job.JobID,
		"kind":   job.Kind,
		"user":   job.UserID,
	})

	switch job.Kind {
	case dto.JobKindCarousel:
		gs.runCarousel(ctx, job)
	case dto.JobKindInfographicFromCarousel:
		gs.runInfographic(ctx, job, false)
	case dto.JobKindInfographicStandalone:
		gs.runInfographic(ctx, job, true)
	case dto.JobKindPost, dto.JobKindPostStandalone:
		gs.runPost(ctx, job)
	case dto.JobKindRegenSlide:
		gs.runRegenSlide(ctx, job)
	case dto.JobKindRegenInfographic:
		gs.runRegenInfographic(ctx, job)
	case dto.JobKindRegenPost:
		gs.runRegenPost(ctx, job)
	default:
		gs.logger.Error("GENERATION_SERVICE", "unknown job kind", map[string]interface{}{
			"job_id": job.JobID,
			"kind":   job.Kind,
		})
		gs.failJob(ctx, job)
	}

	// Jobs are never redelivered: every outcome, success or failure, has
	// already been reported to the user.
	msg.Ack()
}

// runCarousel is the main pipeline: structure, then one image per slide, then
// a best-effort record, then the regeneration offer.
func (gs *generationService) runCarousel(ctx context.Context, job dto.JobMessage) {
	system := strings.ReplaceAll(constant.CarouselSystemPrompt, "{slides_count}", strconv.Itoa(job.SlideCount))

	var doc store.CarouselDocument
	err := gs.text.GenerateDocument(ctx, job.Topic, system, &doc,
		llm.WithMaxRetries(gs.cfg.Generation.TextMaxRetries))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "carousel structure failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgStructureFailed)
		gs.failJob(ctx, job)
		return
	}
	if len(doc.Slides) == 0 {
		gs.send(ctx, job.ChatID, constant.MsgNoSlides)
		gs.failJob(ctx, job)
		return
	}

	gs.send(ctx, job.ChatID, constant.MsgStructureReady)

	total := len(doc.Slides)
	background := gs.backgrounds.URL()
	backgroundOK := gs.probe(ctx, background)

	prompts := make(map[int]string, total)
	images := make(map[int]string, total)

	for i := range doc.Slides {
		n := i + 1
		doc.Slides[i].SlideNumber = n
		slide := doc.Slides[i]

		p := prompt.ForSlide(slide, total)
		prompts[n] = p

		url, err := gs.renderImage(ctx, p, gs.slideReferences(n, total, job.ReferenceImageURL, background, backgroundOK))
		if err != nil {
			gs.logger.Warn("GENERATION_SERVICE", "slide generation failed", map[string]interface{}{
				"job_id": job.JobID,
				"slide":  n,
				"error":  err.Error(),
			})
			gs.send(ctx, job.ChatID, fmt.Sprintf(constant.MsgSlideFailedFmt, n))
			continue
		}
		images[n] = url

		gs.deliverSlide(ctx, job.ChatID, n, total, url)
	}

	recordID := gs.persistCarousel(ctx, job, prompts, images)

	gs.send(ctx, job.ChatID, constant.MsgCarouselDone)
	gs.send(ctx, job.ChatID, constant.MsgOfferRegenerateSlide)

	gs.finishJob(job, func(session *store.Session) {
		session.LastCarousel = &store.CarouselContext{
			Topic:             job.Topic,
			Document:          &doc,
			Prompts:           prompts,
			Images:            images,
			SlideCount:        total,
			ReferenceImageURL: job.ReferenceImageURL,
			RecordID:          recordID,
		}
		session.Regen = store.RegenTarget{Kind: store.RegenSlide}
		session.To(store.AwaitingRegenerateYesNo)
	})
}

// persistCarousel writes the job record. A store failure is logged and
// swallowed: the slides are already in the chat.
func (gs *generationService) persistCarousel(ctx context.Context, job dto.JobMessage, prompts, images map[int]string) string {
	fields := recordstore.CarouselFields(job.Topic, job.SlideCount, job.ReferenceImageURL, prompts, images)
	recordID, err := gs.records.Create(ctx, fields)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to persist carousel record", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		return ""
	}
	return recordID
}

func (gs *generationService) runInfographic(ctx context.Context, job dto.JobMessage, standalone bool) {
	var renderPrompt string
	if standalone {
		var doc store.InfographicDocument
		err := gs.text.GenerateDocument(ctx, job.Topic, constant.InfographicSystemPrompt, &doc,
			llm.WithMaxRetries(gs.cfg.Generation.TextMaxRetries))
		if err != nil {
			gs.logger.Error("GENERATION_SERVICE", "infographic structure failed", map[string]interface{}{
				"job_id": job.JobID,
				"error":  err.Error(),
			})
			gs.send(ctx, job.ChatID, constant.MsgInfographicFailed)
			gs.failJob(ctx, job)
			return
		}
		heading := doc.CaptivityHeading
		if strings.TrimSpace(heading) == "" {
			heading = job.Topic
		}
		renderPrompt = prompt.InfographicFromStructure(heading, prompt.PadTips(doc.Tips))
		gs.send(ctx, job.ChatID, constant.MsgInfographicRendering)
	} else {
		renderPrompt = prompt.InfographicFromTopic(job.Topic)
	}

	gs.completeInfographic(ctx, job, renderPrompt, standalone)
}

// completeInfographic renders, delivers, persists, and re-offers. Shared by
// both first-run variants; regeneration goes through runRegenInfographic.
func (gs *generationService) completeInfographic(ctx context.Context, job dto.JobMessage, renderPrompt string, standalone bool) {
	url, err := gs.renderImage(ctx, renderPrompt, gs.backgroundReferences(ctx))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "infographic generation failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgInfographicFailed)
		gs.failJob(ctx, job)
		return
	}

	// Infographics carry no watermark.
	data, err := gs.download(ctx, url)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "infographic download failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgInfographicFailed)
		gs.failJob(ctx, job)
		return
	}
	if err := gs.transport.SendImage(ctx, job.ChatID, constant.MsgInfographicCaption, "infographic.png", data); err != nil {
		gs.send(ctx, job.ChatID, constant.MsgFileTooLarge)
	}

	recordID := gs.persistInfographic(ctx, job, renderPrompt, url, standalone)

	gs.send(ctx, job.ChatID, constant.MsgInfographicDone)
	gs.send(ctx, job.ChatID, constant.MsgOfferRegenerateAgain)

	gs.finishJob(job, func(session *store.Session) {
		session.LastInfographic = &store.InfographicContext{
			Topic:    job.Topic,
			Prompt:   renderPrompt,
			ImageURL: url,
			RecordID: recordID,
		}
		session.Regen = store.RegenTarget{Kind: store.RegenInfographic}
		session.To(store.AwaitingRegenerateYesNo)
	})
}

// persistInfographic updates the carousel's row when one exists, otherwise
// creates a standalone row. Best effort either way.
func (gs *generationService) persistInfographic(ctx context.Context, job dto.JobMessage, renderPrompt, url string, standalone bool) string {
	if !standalone {
		if session, found := gs.sessions.Get(job.UserID); found && session.LastCarousel != nil && session.LastCarousel.RecordID != "" {
			recordID := session.LastCarousel.RecordID
			if err := gs.records.Update(ctx, recordID, recordstore.InfographicFields("", renderPrompt, url)); err != nil {
				gs.logger.Error("GENERATION_SERVICE", "failed to update infographic record", map[string]interface{}{
					"job_id":    job.JobID,
					"record_id": recordID,
					"error":     err.Error(),
				})
			}
			return recordID
		}
	}

	recordID, err := gs.records.Create(ctx, recordstore.InfographicFields(job.Topic, renderPrompt, url))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to persist infographic record", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		return ""
	}
	return recordID
}

func (gs *generationService) runPost(ctx context.Context, job dto.JobMessage) {
	system := constant.PostStandaloneSystemPrompt
	fromCarousel := job.Kind == dto.JobKindPost
	if fromCarousel {
		system = constant.PostFromCarouselSystemPrompt
	}

	raw, err := gs.text.GenerateText(ctx, job.Topic, system,
		llm.WithTemperature(gs.cfg.Generation.PostTemperature),
		llm.WithMaxRetries(gs.cfg.Generation.TextMaxRetries))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "post generation failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgPostFailed)
		gs.failJob(ctx, job)
		return
	}

	text := sanitize.Clean(raw)
	gs.sendHTML(ctx, job.ChatID, text)

	recordID := gs.persistPost(ctx, job, text, fromCarousel)

	gs.send(ctx, job.ChatID, constant.MsgPostDone)
	gs.send(ctx, job.ChatID, constant.MsgOfferRegenerateAgain)

	gs.finishJob(job, func(session *store.Session) {
		session.LastPost = &store.PostContext{
			Topic:        job.Topic,
			Text:         text,
			FromCarousel: fromCarousel,
			RecordID:     recordID,
		}
		session.Regen = store.RegenTarget{Kind: store.RegenPost}
		session.To(store.AwaitingRegenerateYesNo)
	})
}

func (gs *generationService) persistPost(ctx context.Context, job dto.JobMessage, text string, fromCarousel bool) string {
	if fromCarousel {
		if session, found := gs.sessions.Get(job.UserID); found && session.LastCarousel != nil && session.LastCarousel.RecordID != "" {
			recordID := session.LastCarousel.RecordID
			if err := gs.records.Update(ctx, recordID, recordstore.Fields{recordstore.FieldPostText: text}); err != nil {
				gs.logger.Error("GENERATION_SERVICE", "failed to update post record", map[string]interface{}{
					"job_id":    job.JobID,
					"record_id": recordID,
					"error":     err.Error(),
				})
			}
			return recordID
		}
		return ""
	}

	fields := recordstore.Fields{
		recordstore.FieldTopic:       job.Topic,
		recordstore.FieldRequestDate: time.Now().Format("2006-01-02"),
		recordstore.FieldPostText:    text,
	}
	recordID, err := gs.records.Create(ctx, fields)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to persist post record", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		return ""
	}
	return recordID
}

func (gs *generationService) runRegenSlide(ctx context.Context, job dto.JobMessage) {
	session, found := gs.sessions.Get(job.UserID)
	if !found || session.LastCarousel == nil {
		gs.send(ctx, job.ChatID, constant.MsgGenerationError)
		gs.failJob(ctx, job)
		return
	}
	lc := session.LastCarousel
	n := job.SlideNumber

	p := job.Prompt
	if job.UseStoredPrompt {
		stored, ok := gs.storedSlidePrompt(ctx, lc.RecordID, n)
		if !ok {
			gs.send(ctx, job.ChatID, constant.MsgPromptMissing)
			gs.finishJob(job, func(session *store.Session) {
				session.To(store.AwaitingInlineEditedPrompt)
			})
			return
		}
		p = stored
	}

	background := gs.backgrounds.URL()
	refs := gs.slideReferences(n, lc.SlideCount, lc.ReferenceImageURL, background, gs.probe(ctx, background))

	url, err := gs.renderImage(ctx, p, refs)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "slide regeneration failed", map[string]interface{}{
			"job_id": job.JobID,
			"slide":  n,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, fmt.Sprintf(constant.MsgSlideFailedFmt, n))
		gs.reoffer(ctx, job)
		return
	}

	gs.deliverSlide(ctx, job.ChatID, n, lc.SlideCount, url)

	lc.Prompts[n] = p
	lc.Images[n] = url
	if lc.RecordID != "" {
		fields := recordstore.Fields{
			recordstore.SlidePromptField(n): p,
			recordstore.SlideImageField(n):  recordstore.Attachment(url),
		}
		if err := gs.records.Update(ctx, lc.RecordID, fields); err != nil {
			gs.logger.Error("GENERATION_SERVICE", "failed to update slide record", map[string]interface{}{
				"job_id":    job.JobID,
				"record_id": lc.RecordID,
				"error":     err.Error(),
			})
		}
	}

	gs.reoffer(ctx, job)
}

func (gs *generationService) runRegenInfographic(ctx context.Context, job dto.JobMessage) {
	session, found := gs.sessions.Get(job.UserID)
	if !found || session.LastInfographic == nil {
		gs.send(ctx, job.ChatID, constant.MsgGenerationError)
		gs.failJob(ctx, job)
		return
	}
	li := session.LastInfographic

	p := job.Prompt
	if job.UseStoredPrompt {
		stored, ok := gs.storedInfographicPrompt(ctx, li.RecordID)
		if !ok {
			gs.send(ctx, job.ChatID, constant.MsgPromptMissing)
			gs.finishJob(job, func(session *store.Session) {
				session.To(store.AwaitingInlineEditedPrompt)
			})
			return
		}
		p = stored
	}

	url, err := gs.renderImage(ctx, p, gs.backgroundReferences(ctx))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "infographic regeneration failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgInfographicFailed)
		gs.reoffer(ctx, job)
		return
	}

	data, err := gs.download(ctx, url)
	if err == nil {
		if err := gs.transport.SendImage(ctx, job.ChatID, constant.MsgInfographicCaption, "infographic.png", data); err != nil {
			gs.send(ctx, job.ChatID, constant.MsgFileTooLarge)
		}
	} else {
		gs.send(ctx, job.ChatID, constant.MsgInfographicFailed)
	}

	li.Prompt = p
	li.ImageURL = url
	if li.RecordID != "" {
		if err := gs.records.Update(ctx, li.RecordID, recordstore.InfographicFields("", p, url)); err != nil {
			gs.logger.Error("GENERATION_SERVICE", "failed to update infographic record", map[string]interface{}{
				"job_id":    job.JobID,
				"record_id": li.RecordID,
				"error":     err.Error(),
			})
		}
	}

	gs.reoffer(ctx, job)
}

func (gs *generationService) runRegenPost(ctx context.Context, job dto.JobMessage) {
	session, found := gs.sessions.Get(job.UserID)
	if !found || session.LastPost == nil {
		gs.send(ctx, job.ChatID, constant.MsgGenerationError)
		gs.failJob(ctx, job)
		return
	}
	lp := session.LastPost

	system := constant.PostStandaloneSystemPrompt
	if lp.FromCarousel {
		system = constant.PostFromCarouselSystemPrompt
	}

	raw, err := gs.text.GenerateText(ctx, job.Prompt, system,
		llm.WithTemperature(gs.cfg.Generation.PostTemperature),
		llm.WithMaxRetries(gs.cfg.Generation.TextMaxRetries))
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "post regeneration failed", map[string]interface{}{
			"job_id": job.JobID,
			"error":  err.Error(),
		})
		gs.send(ctx, job.ChatID, constant.MsgPostFailed)
		gs.reoffer(ctx, job)
		return
	}

	text := sanitize.Clean(raw)
	gs.sendHTML(ctx, job.ChatID, text)

	lp.Text = text
	if lp.RecordID != "" {
		if err := gs.records.Update(ctx, lp.RecordID, recordstore.Fields{recordstore.FieldPostText: text}); err != nil {
			gs.logger.Error("GENERATION_SERVICE", "failed to update post record", map[string]interface{}{
				"job_id":    job.JobID,
				"record_id": lp.RecordID,
				"error":     err.Error(),
			})
		}
	}

	gs.reoffer(ctx, job)
}

// renderImage submits and polls one image generation, retrying transient
// failures with a fixed backoff. Returns the first output URL.
func (gs *generationService) renderImage(ctx context.Context, renderPrompt string, refs []string) (string, error) {
	in := imagegen.Input{
		Prompt:      renderPrompt,
		ImageInputs: refs,
	}

	var lastErr error
	attempts := gs.cfg.Generation.ImageMaxRetries
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(gs.cfg.Generation.RetryBackoff):
			}
		}

		taskID, err := gs.images.Submit(ctx, in)
		if err != nil {
			lastErr = err
			continue
		}
		urls, err := gs.images.Await(ctx, taskID)
		if err != nil {
			lastErr = err
			continue
		}
		if len(urls) == 0 {
			lastErr = fmt.Errorf("image task %s returned no outputs", taskID)
			continue
		}
		return urls[0], nil
	}
	return "", lastErr
}

// slideReferences picks the reference images for one slide: the cover uses
// the user's photo, every other slide uses the shared background when it is
// reachable and falls back to text-to-image when it is not.
func (gs *generationService) slideReferences(n, total int, userRef, background string, backgroundOK bool) []string {
	if prompt.Classify(n, total) == prompt.KindCover {
		if userRef != "" {
			return []string{userRef}
		}
		return nil
	}
	if backgroundOK {
		return []string{background}
	}
	return nil
}

func (gs *generationService) backgroundReferences(ctx context.Context) []string {
	background := gs.backgrounds.URL()
	if gs.probe(ctx, background) {
		return []string{background}
	}
	return nil
}

// deliverSlide downloads, watermarks, and sends one slide.
func (gs *generationService) deliverSlide(ctx context.Context, chatID int64, n, total int, url string) {
	data, err := gs.download(ctx, url)
	if err != nil {
		gs.logger.Warn("GENERATION_SERVICE", "slide download failed", map[string]interface{}{
			"slide": n,
			"error": err.Error(),
		})
		gs.send(ctx, chatID, fmt.Sprintf(constant.MsgImageDeliveryFailedFmt, n))
		return
	}

	pos, light := stampPolicy(n, total)
	data = gs.stamper.Apply(data, pos, light)

	caption := fmt.Sprintf(constant.MsgSlideCaptionFmt, n)
	if err := gs.transport.SendImage(ctx, chatID, caption, fmt.Sprintf("slide_%d.png", n), data); err != nil {
		gs.logger.Warn("GENERATION_SERVICE", "slide send failed", map[string]interface{}{
			"slide": n,
			"error": err.Error(),
		})
		gs.send(ctx, chatID, fmt.Sprintf(constant.MsgImageDeliveryFailedFmt, n))
	}
}

// stampPolicy: cover gets a light mark top-left, interior slides a normal
// mark bottom-right, the final slide none.
func stampPolicy(n, total int) (watermark.Position, bool) {
	switch prompt.Classify(n, total) {
	case prompt.KindCover:
		return watermark.PositionTopLeft, true
	case prompt.KindFinal:
		return watermark.PositionNone, false
	default:
		return watermark.PositionBottomRight, false
	}
}

func (gs *generationService) storedSlidePrompt(ctx context.Context, recordID string, n int) (string, bool) {
	if recordID == "" {
		return "", false
	}
	fields, err := gs.records.Get(ctx, recordID)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to read record", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
		return "", false
	}
	return recordstore.SlidePrompt(fields, n)
}

func (gs *generationService) storedInfographicPrompt(ctx context.Context, recordID string) (string, bool) {
	if recordID == "" {
		return "", false
	}
	fields, err := gs.records.Get(ctx, recordID)
	if err != nil {
		gs.logger.Error("GENERATION_SERVICE", "failed to read record", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
		return "", false
	}
	return recordstore.InfographicPrompt(fields)
}

// probe checks that a reference URL still resolves before handing it to the
// image backend.
func (gs *generationService) probe(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := gs.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (gs *generationService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := gs.downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// reoffer closes a regeneration round: clear the job handle, keep the regen
// target, ask again.
func (gs *generationService) reoffer(ctx context.Context, job dto.JobMessage) {
	gs.send(ctx, job.ChatID, constant.MsgOfferRegenerateAgain)
	gs.finishJob(job, func(session *store.Session) {
		session.To(store.AwaitingRegenerateYesNo)
	})
}

// failJob resets the session to idle after a fatal pipeline error.
func (gs *generationService) failJob(ctx context.Context, job dto.JobMessage) {
	gs.finishJob(job, func(session *store.Session) {
		session.ResetFlow()
	})
}

// finishJob clears the job handle and applies the pipeline's state change.
// It takes the session lock: the conversation side may be mid-turn with the
// same user when a job completes.
func (gs *generationService) finishJob(job dto.JobMessage, mutate func(session *store.Session)) {
	session := gs.sessions.GetOrCreate(job.UserID, job.ChatID)
	session.Lock()
	session.ActiveJobID = ""
	session.To(store.AwaitingNothing)
	mutate(session)
	gs.sessions.Save(session)
	state := session.Awaiting
	session.Unlock()

	gs.logger.Info("GENERATION_SERVICE", "job finished", map[string]interface{}{
		"job_id": job.JobID,
		"kind":   job.Kind,
		"state":  string(state),
	})
}

func (gs *generationService) send(ctx context.Context, chatID int64, text string) {
	if err := gs.transport.SendText(ctx, chatID, text); err != nil {
		gs.logger.Warn("GENERATION_SERVICE", "failed to send message", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func (gs *generationService) sendHTML(ctx context.Context, chatID int64, text string) {
	if err := gs.transport.SendHTML(ctx, chatID, text); err != nil {
		gs.logger.Warn("GENERATION_SERVICE", "failed to send html message", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
		// Fall back to plain text if the markup is rejected.
		gs.send(ctx, chatID, text)
	}
}
