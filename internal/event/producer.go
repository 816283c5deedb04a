package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pawmart/PetShopGo/internal/domain"
	pkgkafka "github.com/pawmart/PetShopGo/pkg/kafka"
)

// Kafka topics for storefront domain events, namespaced under the shared
// prefix.
var (
	TopicProductCreated  = pkgkafka.Topic("product", "created")
	TopicProductUpdated  = pkgkafka.Topic("product", "updated")
	TopicProductDeleted  = pkgkafka.Topic("product", "deleted")
	TopicRatingSubmitted = pkgkafka.Topic("rating", "submitted")
	TopicCommentAdded    = pkgkafka.Topic("comment", "added")
	TopicCommentDeleted  = pkgkafka.Topic("comment", "deleted")
	TopicOrderPlaced     = pkgkafka.Topic("order", "placed")
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeComment = "comment"
	AggregateTypeOrder   = "order"
)

// Source identifier for events originating from the storefront backend.
const SourcePetshopService = "petshop-service"

// ProductEventData is the payload for product.created and product.updated events.
type ProductEventData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Price    int64  `json:"price"`
	Category string `json:"category,omitempty"`
	Stock    int    `json:"stock"`
	OwnerUID string `json:"owner_uid,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// RatingSubmittedData is the payload for a rating.submitted event.
type RatingSubmittedData struct {
	ProductID string `json:"product_id"`
	UserName  string `json:"user_name"`
	Value     int    `json:"value"`
}

// CommentAddedData is the payload for a comment.added event.
type CommentAddedData struct {
	ID             string   `json:"id"`
	ProductID      string   `json:"product_id"`
	UserName       string   `json:"user_name"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
}

// CommentDeletedData is the payload for a comment.deleted event.
type CommentDeletedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	ID         string `json:"id"`
	SessionID  string `json:"session_id"`
	TotalPrice int64  `json:"total_price"`
	ItemCount  int    `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront backend.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productEventData(product *domain.Product) ProductEventData {
	return ProductEventData{
		ID:       product.ID,
		Name:     product.Name,
		Slug:     product.Slug,
		Price:    product.Price,
		Category: product.Category,
		Stock:    product.Stock,
		OwnerUID: product.OwnerUID,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productEventData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productEventData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishRatingSubmitted publishes a rating.submitted event.
func (p *Producer) PublishRatingSubmitted(ctx context.Context, rating *domain.Rating) error {
	data := RatingSubmittedData{
		ProductID: rating.ProductID,
		UserName:  rating.UserName,
		Value:     rating.Value,
	}
	return p.publish(ctx, TopicRatingSubmitted, rating.ProductID, AggregateTypeProduct, data)
}

// PublishCommentAdded publishes a comment.added event.
func (p *Producer) PublishCommentAdded(ctx context.Context, comment *domain.Comment) error {
	data := CommentAddedData{
		ID:             comment.ID,
		ProductID:      comment.ProductID,
		UserName:       comment.UserName,
		SentimentScore: comment.SentimentScore,
	}
	return p.publish(ctx, TopicCommentAdded, comment.ID, AggregateTypeComment, data)
}

// PublishCommentDeleted publishes a comment.deleted event.
func (p *Producer) PublishCommentDeleted(ctx context.Context, commentID, productID string) error {
	return p.publish(ctx, TopicCommentDeleted, commentID, AggregateTypeComment, CommentDeletedData{ID: commentID, ProductID: productID})
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	data := OrderPlacedData{
		ID:         order.ID,
		SessionID:  order.SessionID,
		TotalPrice: order.TotalPrice,
		ItemCount:  len(order.Items),
	}
	return p.publish(ctx, TopicOrderPlaced, order.ID, AggregateTypeOrder, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourcePetshopService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
