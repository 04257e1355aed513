package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionAnswersKey returns the cache key for a session's live answer sheet.
func (r *CacheKeyStruct) SessionAnswersKey(attemptID string) string {
	return fmt.Sprintf("session:%s:answers", attemptID)
}

// SessionStateKey returns the cache key for a session's navigation state
// (current index, statuses, review flags).
func (r *CacheKeyStruct) SessionStateKey(attemptID string) string {
	return fmt.Sprintf("session:%s:state", attemptID)
}

// SessionHintsKey returns the cache key for a session's per-question hint counts.
func (r *CacheKeyStruct) SessionHintsKey(attemptID string) string {
	return fmt.Sprintf("session:%s:hints", attemptID)
}

// ReportKey returns the cache key for a graded session's score report.
func (r *CacheKeyStruct) ReportKey(attemptID string) string {
	return fmt.Sprintf("session:%s:report", attemptID)
}

var CacheKey = NewCacheKeyStruct()
