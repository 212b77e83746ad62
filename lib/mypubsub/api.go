package mypubsub

import "context"

//go:generate mockgen -source=api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	CreateTopic(c context.Context, topic string) error
	Publish(c context.Context, topic string, data string) error
}

// New returns a google cloud pubsub client when a cloud project is configured, a logging fake otherwise.
func New(c context.Context, projectID string) (PubSub, func(), error) {
	if projectID != "" {
		return newGcloudPubSub(c, projectID)
	}
	return newFakePubSub(c)
}
