package mypubsub

import (
	"context"
	"log"
	"sync"
)

type fakePubSub struct {
	sync.Mutex
	published map[string][]string
}

func newFakePubSub(c context.Context) (*fakePubSub, func(), error) {
	return &fakePubSub{
		published: map[string][]string{},
	}, func() {}, nil
}

func (ps *fakePubSub) CreateTopic(c context.Context, topic string) error {
	return nil
}

func (ps *fakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.published[topic] = append(ps.published[topic], data)
	log.Printf("Published on topic %s: %s", topic, data)

	return nil
}

func (ps *fakePubSub) messages(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.published[topic]...)
}
