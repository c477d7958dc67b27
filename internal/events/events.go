package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"

	"github.com/ButyrinIA/posts/internal/config"
	"github.com/ButyrinIA/posts/internal/models"
	"github.com/ButyrinIA/posts/internal/storage"
)

// PostsTopic - топик, в который публикуются изменения постов
const PostsTopic = "posts"

type Type string

const (
	PostCreated Type = "post_created"
	PostUpdated Type = "post_updated"
	PostDeleted Type = "post_deleted"
)

// Event - изменение поста. Seq растет строго на единицу в порядке применения изменений.
type Event struct {
	Seq    uint64       `json:"seq"`
	Type   Type         `json:"type"`
	PostID int          `json:"post_id"`
	Post   *models.Post `json:"post,omitempty"`
}

// NewPubSub создает внутрипроцессный pub/sub для событий.
// Publish ждет Ack от всех подписчиков, иначе сообщения обгоняют друг друга.
func NewPubSub(cfg config.EventsConfig, logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            cfg.Buffer,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(logger),
	)
}

func Decode(msg *message.Message) (Event, error) {
	var e Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return Event{}, errors.Wrapf(err, "cannot decode event %s", msg.UUID)
	}
	return e, nil
}

// PublishingStorage публикует событие после каждого успешного изменения.
// Изменение и его публикация идут под одной блокировкой, поэтому порядок событий
// совпадает с порядком изменений. Ошибка публикации только логируется: изменение уже применено.
type PublishingStorage struct {
	storage.Storage

	publisher message.Publisher
	logger    *slog.Logger

	mu  sync.Mutex
	seq uint64
}

func NewPublishingStorage(store storage.Storage, publisher message.Publisher, logger *slog.Logger) *PublishingStorage {
	return &PublishingStorage{
		Storage:   store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *PublishingStorage) CreatePost(ctx context.Context, post models.NewPost) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.Storage.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	s.publish(Event{Type: PostCreated, PostID: created.ID, Post: created})
	return created, nil
}

func (s *PublishingStorage) UpdatePost(ctx context.Context, id int, patch models.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.Storage.UpdatePost(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.publish(Event{Type: PostUpdated, PostID: updated.ID, Post: updated})
	return updated, nil
}

func (s *PublishingStorage) DeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Storage.DeletePost(ctx, id); err != nil {
		return err
	}
	s.publish(Event{Type: PostDeleted, PostID: id})
	return nil
}

// publish вызывается под s.mu
func (s *PublishingStorage) publish(e Event) {
	s.seq++
	e.Seq = s.seq

	payload, err := json.Marshal(e)
	if err != nil {
		s.logger.Error("не удалось сериализовать событие", "type", e.Type, "post_id", e.PostID, "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(PostsTopic, msg); err != nil {
		s.logger.Error("не удалось опубликовать событие", "type", e.Type, "post_id", e.PostID, "error", err)
		return
	}
	s.logger.Debug("событие опубликовано", "type", e.Type, "post_id", e.PostID, "seq", e.Seq, "message_uuid", msg.UUID)
}
