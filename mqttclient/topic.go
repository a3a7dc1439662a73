package mqttclient

import (
	"errors"
	"strings"
)

const (
	topicSep    = "/"
	singleLevel = "+"
	multiLevel  = "#"
)

const topicSpecialChars = topicSep + singleLevel + multiLevel

var (
	errEmptyTopicLevelName   = errors.New("mqttclient: invalid topic level name: name is empty")
	errInvalidTopicLevelName = errors.New("mqttclient: invalid topic level name: name contains invalid characters")
)

// CheckLevelName checks whether a single topic level (as opposed to a
// full slash-joined topic filter) consists of valid characters.
func CheckLevelName(name string) error {
	switch {
	case name == "":
		return errEmptyTopicLevelName
	case strings.ContainsAny(name, topicSpecialChars):
		return errInvalidTopicLevelName
	default:
		return nil
	}
}

func topicJoin(parts []string) string    { return strings.Join(parts, topicSep) }
func topicJoinStr(strs ...string) string { return strings.Join(strs, topicSep) }
func topicSplit(topic string) []string   { return strings.Split(topic, topicSep) }

// IsWildcard reports whether a topic filter contains a subscription
// wildcard, which matters to the reassembler: wildcard filters can match
// more than one concrete topic, so fragments must be tracked by the
// concrete topic the broker reports, not by the filter that matched it.
func IsWildcard(filter string) bool {
	return strings.Contains(filter, singleLevel) || strings.Contains(filter, multiLevel)
}

// topicMatch reports whether the concrete topic a DATA event was
// published to satisfies filter, honoring the single-level (+) and
// multi-level, trailing-only (#) wildcards a subscription filter may use.
func topicMatch(filter, topic string) bool {
	fParts := topicSplit(filter)
	tParts := topicSplit(topic)
	for i, fp := range fParts {
		if fp == multiLevel {
			return true
		}
		if i >= len(tParts) {
			return false
		}
		if fp != singleLevel && fp != tParts[i] {
			return false
		}
	}
	return len(fParts) == len(tParts)
}
