package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CandidateSessionKey returns the cache key holding a candidate's active
// login JTI. Candidates are limited to a single device at a time.
func (r *CacheKeyStruct) CandidateSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// ExamGradeKey returns the cache key for a graded exam score, written by the
// grading worker so clients can poll without hitting PostgreSQL.
func (r *CacheKeyStruct) ExamGradeKey(examID string) string {
	return fmt.Sprintf("exam:%s:grade", examID)
}

// SessionMonitorChannel returns the Redis Pub/Sub channel carrying live exam
// events for an exam session's VE monitor.
func (r *CacheKeyStruct) SessionMonitorChannel(sessionID int) string {
	return fmt.Sprintf("session:%d:monitor", sessionID)
}

var CacheKey = NewCacheKeyStruct()
