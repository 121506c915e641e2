package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ai-carousel-bot/internal/config"
	"ai-carousel-bot/internal/constant"
	"ai-carousel-bot/internal/dto"
	"ai-carousel-bot/internal/pkg/logger"
	"ai-carousel-bot/internal/repository/memory"
	"ai-carousel-bot/pkg/store"
	"ai-carousel-bot/pkg/telegram"

	"github.com/google/uuid"
)

// ChatTransport is the outbound chat surface the engine talks through.
type ChatTransport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendHTML(ctx context.Context, chatID int64, text string) error
	SendTextWithKeyboard(ctx context.Context, chatID int64, text string, markup interface{}) error
	SendImage(ctx context.Context, chatID int64, caption, filename string, data []byte) error
	SendFile(ctx context.Context, chatID int64, caption, filename string, data []byte) error
	GetFileURL(ctx context.Context, fileID string) (string, error)
	UploadPhoto(ctx context.Context, chatID int64, caption, filename string, data []byte) (string, error)
}

type IConversationService interface {
	HandleMessage(ctx context.Context, msg *telegram.Message)
	EnsureBackground(ctx context.Context)
	ReloadBackground(ctx context.Context) (string, error)
}

type conversationService struct {
	cfg         *config.Config
	logger      logger.ILogger
	transport   ChatTransport
	sessions    *memory.SessionRepository
	backgrounds *memory.BackgroundStore
	publisher   IPublisherService
}

func NewConversationService(
	cfg *config.Config,
	log logger.ILogger,
	transport ChatTransport,
	sessions *memory.SessionRepository,
	backgrounds *memory.BackgroundStore,
	publisher IPublisherService,
) IConversationService {
	return &conversationService{
		cfg:         cfg,
		logger:      log,
		transport:   transport,
		sessions:    sessions,
		backgrounds: backgrounds,
		publisher:   publisher,
	}
}

// HandleMessage is the single entry point of the state machine. One call per
// inbound message; every branch leaves the session in exactly one state.
func (s *conversationService) HandleMessage(ctx context.Context, msg *telegram.Message) {
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.From.IsBot {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if !s.allowed(userID) {
		s.send(ctx, chatID, constant.MsgAccessDenied)
		return
	}

	session := s.sessions.GetOrCreate(userID, chatID)
	session.Lock()
	defer session.Unlock()
	session.ChatID = chatID
	defer s.sessions.Save(session)

	text := strings.TrimSpace(msg.Text)

	if strings.HasPrefix(text, "/") {
		s.handleCommand(ctx, session, text)
		return
	}

	if session.Busy() {
		s.send(ctx, chatID, constant.MsgBusy)
		return
	}

	if s.handleModeButton(ctx, session, text) {
		return
	}

	if len(msg.Photo) > 0 {
		s.handlePhoto(ctx, session, msg)
		return
	}

	switch session.Awaiting {
	case store.AwaitingNothing, store.AwaitingTopic:
		s.handleTopic(ctx, session, text)
	case store.AwaitingReferenceImage:
		s.send(ctx, session.ChatID, constant.MsgAwaitingPhoto)
	case store.AwaitingSlideCount:
		s.handleSlideCount(ctx, session, text)
	case store.AwaitingStandalonePostTopic:
		s.handleStandalonePostTopic(ctx, session, text)
	case store.AwaitingRegenerateYesNo:
		s.handleRegenerateAnswer(ctx, session, text)
	case store.AwaitingSlideNumber:
		s.handleSlideNumber(ctx, session, text)
	case store.AwaitingExternalEditConfirm:
		s.handleExternalEditConfirm(ctx, session, text)
	case store.AwaitingInlineEditedPrompt:
		s.handleInlinePrompt(ctx, session, text)
	case store.AwaitingInfographicYesNo:
		s.handleInfographicAnswer(ctx, session, text)
	case store.AwaitingPostYesNo:
		s.handlePostAnswer(ctx, session, text)
	default:
		s.handleTopic(ctx, session, text)
	}
}

func (s *conversationService) allowed(userID int64) bool {
	ids := s.cfg.Telegram.AllowedUserIDs
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *conversationService) handleCommand(ctx context.Context, session *store.Session, text string) {
	cmd := strings.SplitN(text, " ", 2)[0]
	cmd = strings.SplitN(cmd, "@", 2)[0]

	switch cmd {
	case "/start":
		if session.Busy() {
			s.send(ctx, session.ChatID, constant.MsgBusy)
			return
		}
		session.ResetFlow()
		s.sendMainKeyboard(ctx, session.ChatID, constant.MsgStart)
	case "/help":
		s.send(ctx, session.ChatID, constant.MsgHelp)
	case "/upload_backgrounds":
		s.handleBackgroundUpload(ctx, session)
	default:
		s.send(ctx, session.ChatID, constant.MsgHelp)
	}
}

func (s *conversationService) handleModeButton(ctx context.Context, session *store.Session, text string) bool {
	switch text {
	case constant.ButtonCarousel, constant.ButtonCarouselBare:
		session.Mode = store.ModeCarousel
		session.To(store.AwaitingNothing)
		session.Pending = store.PendingRequest{}
		s.send(ctx, session.ChatID, constant.MsgModeCarousel)
		return true
	case constant.ButtonInfographic, constant.ButtonInfographicBare:
		session.Mode = store.ModeInfographic
		session.To(store.AwaitingNothing)
		session.Pending = store.PendingRequest{}
		s.send(ctx, session.ChatID, constant.MsgModeInfographic)
		return true
	case constant.ButtonPost, constant.ButtonPostBare:
		session.To(store.AwaitingStandalonePostTopic)
		s.send(ctx, session.ChatID, constant.MsgModePost)
		return true
	}
	return false
}

func (s *conversationService) handlePhoto(ctx context.Context, session *store.Session, msg *telegram.Message) {
	if session.Awaiting != store.AwaitingReferenceImage {
		s.send(ctx, session.ChatID, constant.MsgSendPhotoFirst)
		return
	}

	largest := msg.Photo[len(msg.Photo)-1]
	url, err := s.transport.GetFileURL(ctx, largest.FileID)
	if err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "failed to resolve reference image", map[string]interface{}{
			"user_id": session.UserID,
			"error":   err.Error(),
		})
		s.send(ctx, session.ChatID, constant.MsgPhotoFailed)
		return
	}

	session.Pending.ReferenceImageURL = url
	session.To(store.AwaitingSlideCount)
	s.send(ctx, session.ChatID, constant.MsgPhotoAccepted)
}

func (s *conversationService) handleTopic(ctx context.Context, session *store.Session, text string) {
	if text == "" {
		s.send(ctx, session.ChatID, constant.MsgEmptyTopic)
		return
	}

	switch session.Mode {
	case store.ModeInfographic:
		s.send(ctx, session.ChatID, constant.MsgInfographicStructure)
		s.dispatch(ctx, session, dto.JobMessage{
			Kind:  dto.JobKindInfographicStandalone,
			Topic: text,
		})
	default:
		if s.backgrounds.URL() == "" {
			s.send(ctx, session.ChatID, constant.MsgBackgroundMissing)
			return
		}
		session.Pending = store.PendingRequest{Topic: text}
		session.To(store.AwaitingReferenceImage)
		s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgTopicAcceptedFmt, text))
	}
}

func (s *conversationService) handleSlideCount(ctx context.Context, session *store.Session, text string) {
	count, err := strconv.Atoi(text)
	if err != nil {
		s.send(ctx, session.ChatID, constant.MsgSlideCountNotANumber)
		return
	}
	if count < 2 || count > 20 {
		s.send(ctx, session.ChatID, constant.MsgSlideCountOutOfRange)
		return
	}

	session.Pending.SlideCount = count
	s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgSlideCountAcceptedFmt, count))
	if s.dispatch(ctx, session, dto.JobMessage{
		Kind:              dto.JobKindCarousel,
		Topic:             session.Pending.Topic,
		ReferenceImageURL: session.Pending.ReferenceImageURL,
		SlideCount:        count,
	}) {
		session.Pending = store.PendingRequest{}
	}
}

func (s *conversationService) handleStandalonePostTopic(ctx context.Context, session *store.Session, text string) {
	if text == "" {
		s.send(ctx, session.ChatID, constant.MsgEmptyTopic)
		return
	}
	s.send(ctx, session.ChatID, constant.MsgPostRendering)
	s.dispatch(ctx, session, dto.JobMessage{
		Kind:  dto.JobKindPostStandalone,
		Topic: text,
	})
}

func (s *conversationService) handleRegenerateAnswer(ctx context.Context, session *store.Session, text string) {
	switch {
	case isAffirmative(text):
		switch session.Regen.Kind {
		case store.RegenSlide:
			if session.LastCarousel == nil {
				session.ResetFlow()
				s.send(ctx, session.ChatID, constant.MsgGenerationError)
				return
			}
			session.To(store.AwaitingSlideNumber)
			s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgAskSlideNumberFmt, session.LastCarousel.SlideCount))
		case store.RegenInfographic:
			s.requestPromptEdit(ctx, session, s.infographicRecordID(session))
		case store.RegenPost:
			// Post prompts are never persisted, so the edit is always inline.
			session.To(store.AwaitingInlineEditedPrompt)
			s.send(ctx, session.ChatID, constant.MsgInlineEditRequest)
		default:
			session.ResetFlow()
		}
	case isNegative(text):
		s.declineRegeneration(ctx, session)
	default:
		s.send(ctx, session.ChatID, constant.MsgAnswerYesNo)
	}
}

// declineRegeneration advances the post-job offer chain: slide regen leads to
// the infographic offer, infographic regen to the post offer, post regen ends
// the flow.
func (s *conversationService) declineRegeneration(ctx context.Context, session *store.Session) {
	switch session.Regen.Kind {
	case store.RegenSlide:
		session.Regen = store.RegenTarget{}
		session.To(store.AwaitingInfographicYesNo)
		s.send(ctx, session.ChatID, constant.MsgOfferInfographic)
	case store.RegenInfographic:
		session.Regen = store.RegenTarget{}
		if session.LastCarousel != nil {
			session.To(store.AwaitingPostYesNo)
			s.send(ctx, session.ChatID, constant.MsgOfferPost)
			return
		}
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgInfographicDeclined)
	default:
		session.Regen = store.RegenTarget{}
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgPostDeclined)
	}
}

func (s *conversationService) handleSlideNumber(ctx context.Context, session *store.Session, text string) {
	if session.LastCarousel == nil {
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgGenerationError)
		return
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		s.send(ctx, session.ChatID, constant.MsgSlideCountNotANumber)
		return
	}
	if n < 1 || n > session.LastCarousel.SlideCount {
		s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgSlideNumberOutOfRangeFmt, session.LastCarousel.SlideCount))
		return
	}

	session.Regen = store.RegenTarget{Kind: store.RegenSlide, SlideNumber: n}
	s.requestPromptEdit(ctx, session, session.LastCarousel.RecordID)
}

// requestPromptEdit moves to the external-edit confirmation when the job was
// persisted, otherwise to an inline prompt since there is no row to edit.
func (s *conversationService) requestPromptEdit(ctx context.Context, session *store.Session, recordID string) {
	if recordID != "" {
		session.To(store.AwaitingExternalEditConfirm)
		s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgExternalEditFmt, recordID))
		return
	}
	session.To(store.AwaitingInlineEditedPrompt)
	s.send(ctx, session.ChatID, constant.MsgInlineEditRequest)
}

func (s *conversationService) handleExternalEditConfirm(ctx context.Context, session *store.Session, text string) {
	if text != constant.ExternalEditToken {
		s.send(ctx, session.ChatID, constant.MsgPlusToConfirm)
		return
	}
	s.dispatchRegeneration(ctx, session, "", true)
}

func (s *conversationService) handleInlinePrompt(ctx context.Context, session *store.Session, text string) {
	if text == "" {
		s.send(ctx, session.ChatID, constant.MsgInlineEditRequest)
		return
	}
	s.dispatchRegeneration(ctx, session, text, false)
}

func (s *conversationService) dispatchRegeneration(ctx context.Context, session *store.Session, prompt string, useStored bool) {
	job := dto.JobMessage{
		Prompt:          prompt,
		UseStoredPrompt: useStored,
	}
	switch session.Regen.Kind {
	case store.RegenSlide:
		job.Kind = dto.JobKindRegenSlide
		job.SlideNumber = session.Regen.SlideNumber
	case store.RegenInfographic:
		job.Kind = dto.JobKindRegenInfographic
	case store.RegenPost:
		job.Kind = dto.JobKindRegenPost
	default:
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgGenerationError)
		return
	}
	s.dispatch(ctx, session, job)
}

func (s *conversationService) handleInfographicAnswer(ctx context.Context, session *store.Session, text string) {
	switch {
	case isAffirmative(text):
		topic := ""
		if session.LastCarousel != nil {
			topic = session.LastCarousel.Topic
		}
		s.send(ctx, session.ChatID, constant.MsgInfographicAccepted)
		s.dispatch(ctx, session, dto.JobMessage{
			Kind:  dto.JobKindInfographicFromCarousel,
			Topic: topic,
		})
	case isNegative(text):
		if session.LastCarousel != nil {
			session.To(store.AwaitingPostYesNo)
			s.send(ctx, session.ChatID, constant.MsgOfferPost)
			return
		}
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgInfographicDeclined)
	default:
		s.send(ctx, session.ChatID, constant.MsgAnswerYesNo)
	}
}

func (s *conversationService) handlePostAnswer(ctx context.Context, session *store.Session, text string) {
	switch {
	case isAffirmative(text):
		topic := ""
		if session.LastCarousel != nil {
			topic = session.LastCarousel.Topic
		}
		s.send(ctx, session.ChatID, constant.MsgPostAccepted)
		s.dispatch(ctx, session, dto.JobMessage{
			Kind:  dto.JobKindPost,
			Topic: topic,
		})
	case isNegative(text):
		session.LastCarousel = nil
		session.ResetFlow()
		s.send(ctx, session.ChatID, constant.MsgPostDeclined)
	default:
		s.send(ctx, session.ChatID, constant.MsgAnswerYesNo)
	}
}

// dispatch publishes one job and flips the session into the running state.
// The concurrency guard lives in HandleMessage: a busy session never reaches
// this point. Returns false when nothing was published, leaving the session
// state untouched so the user can retry the same input.
func (s *conversationService) dispatch(ctx context.Context, session *store.Session, job dto.JobMessage) bool {
	job.JobID = uuid.New().String()
	job.UserID = session.UserID
	job.ChatID = session.ChatID

	payload, err := json.Marshal(job)
	if err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "failed to marshal job", map[string]interface{}{
			"kind":  job.Kind,
			"error": err.Error(),
		})
		s.send(ctx, session.ChatID, constant.MsgGenerationError)
		return false
	}

	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "failed to publish job", map[string]interface{}{
			"kind":  job.Kind,
			"error": err.Error(),
		})
		s.send(ctx, session.ChatID, constant.MsgGenerationError)
		return false
	}

	session.ActiveJobID = job.JobID
	session.To(store.JobRunning)
	s.logger.Info("CONVERSATION_SERVICE", "job dispatched", map[string]interface{}{
		"job_id":  job.JobID,
		"kind":    job.Kind,
		"user_id": session.UserID,
	})
	return true
}

// handleBackgroundUpload pushes the bundled background image through the chat
// so the transport hosts it, then caches the hosted URL for all future jobs.
func (s *conversationService) handleBackgroundUpload(ctx context.Context, session *store.Session) {
	admin := s.cfg.Telegram.AdminChatID
	if admin != 0 && session.UserID != admin {
		s.send(ctx, session.ChatID, constant.MsgAccessDenied)
		return
	}

	s.send(ctx, session.ChatID, constant.MsgBackgroundUploading)

	url, err := s.uploadBackground(ctx, session.ChatID)
	switch {
	case err == nil:
		s.send(ctx, session.ChatID, fmt.Sprintf(constant.MsgBackgroundUpdatedFmt, url))
		s.send(ctx, session.ChatID, constant.MsgBackgroundReady)
	case os.IsNotExist(err):
		s.send(ctx, session.ChatID, constant.MsgBackgroundFileMissing)
	default:
		s.send(ctx, session.ChatID, constant.MsgBackgroundUploadFailed)
	}
}

// EnsureBackground restores the shared background reference on startup. When
// the cache file is empty it replays the upload through the admin chat; with
// no admin chat configured the carousel flows stay blocked until an operator
// runs the upload command.
func (s *conversationService) EnsureBackground(ctx context.Context) {
	if s.backgrounds.URL() != "" {
		return
	}
	if _, err := s.ReloadBackground(ctx); err != nil {
		s.logger.Warn("CONVERSATION_SERVICE", "startup background upload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// ReloadBackground re-hosts the bundled background image through the admin
// chat and returns the fresh URL. Used by the ops endpoint and the startup
// restore.
func (s *conversationService) ReloadBackground(ctx context.Context) (string, error) {
	admin := s.cfg.Telegram.AdminChatID
	if admin == 0 {
		return "", errors.New("no admin chat configured")
	}
	return s.uploadBackground(ctx, admin)
}

// uploadBackground reads the bundled image, hosts it via the transport, and
// caches the resulting URL.
func (s *conversationService) uploadBackground(ctx context.Context, chatID int64) (string, error) {
	path := s.cfg.Assets.BackgroundImagePath
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "background file unreadable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return "", err
	}

	fileID, err := s.transport.UploadPhoto(ctx, chatID, "", filepath.Base(path), data)
	if err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "background upload failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", err
	}
	url, err := s.transport.GetFileURL(ctx, fileID)
	if err != nil {
		s.logger.Error("CONVERSATION_SERVICE", "background upload failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", err
	}
	if err := s.backgrounds.Set(url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *conversationService) infographicRecordID(session *store.Session) string {
	if session.LastInfographic != nil {
		return session.LastInfographic.RecordID
	}
	return ""
}

func (s *conversationService) send(ctx context.Context, chatID int64, text string) {
	if err := s.transport.SendText(ctx, chatID, text); err != nil {
		s.logger.Warn("CONVERSATION_SERVICE", "failed to send message", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func (s *conversationService) sendMainKeyboard(ctx context.Context, chatID int64, text string) {
	keyboard := telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: constant.ButtonCarousel}, {Text: constant.ButtonInfographic}},
			{{Text: constant.ButtonPost}},
		},
		ResizeKeyboard: true,
	}
	if err := s.transport.SendTextWithKeyboard(ctx, chatID, text, keyboard); err != nil {
		s.logger.Warn("CONVERSATION_SERVICE", "failed to send keyboard", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func isAffirmative(text string) bool {
	return matchesAny(text, constant.AffirmativeAnswers)
}

func isNegative(text string) bool {
	return matchesAny(text, constant.NegativeAnswers)
}

func matchesAny(text string, vocab []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, v := range vocab {
		if normalized == v {
			return true
		}
	}
	return false
}
