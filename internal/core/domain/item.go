package domain

import (
	"strings"
)

type Topic string

const (
	TopicDistributedSystems  Topic = "distributed-systems"
	TopicUndergraduateSchool Topic = "undergraduate-school"
)

// ParseTopic accepts the canonical hyphenated form as well as the space separated
// spelling used by older catalog data.
func ParseTopic(s string) (Topic, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	switch Topic(normalized) {
	case TopicDistributedSystems:
		return TopicDistributedSystems, nil
	case TopicUndergraduateSchool:
		return TopicUndergraduateSchool, nil
	default:
		return "", ErrInvalidTopic
	}
}

func (t Topic) String() string {
	return string(t)
}

type Item struct {
	ID       int64
	Title    string
	Topic    Topic
	Price    int64
	Quantity int64
}

func (i Item) InStock() bool {
	return i.Quantity > 0
}

type ItemSummary struct {
	ID    int64
	Title string
}
