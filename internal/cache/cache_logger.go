package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a pattern and logs instead of failing.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes keys and logs instead of failing.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

func CourseKey(id uint) string   { return fmt.Sprintf("id:%d", id) }
func QuestionKey(id uint) string { return fmt.Sprintf("id:%d", id) }
func PaperKey(id uint) string    { return fmt.Sprintf("questions:%d", id) }
func TokenKey(key string) string { return "key:" + key }

func InvalidateCourse(ctx context.Context, cm *CacheManager, courseID uint) {
	SafeDelete(ctx, cm.Course, CourseKey(courseID))
}

func InvalidateQuestion(ctx context.Context, cm *CacheManager, questionID uint) {
	SafeDelete(ctx, cm.Question, QuestionKey(questionID))
	// question bodies are embedded in cached paper question lists
	SafeInvalidatePattern(ctx, cm.Paper, "questions:*")
}

// InvalidateAllQuestions drops every cached question, used when a course
// deletion rewrites course references in bulk.
func InvalidateAllQuestions(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Question, "id:*")
	SafeInvalidatePattern(ctx, cm.Paper, "questions:*")
}

func InvalidatePaper(ctx context.Context, cm *CacheManager, paperID uint) {
	SafeDelete(ctx, cm.Paper, PaperKey(paperID))
}

func InvalidateToken(ctx context.Context, cm *CacheManager, key string) {
	SafeDelete(ctx, cm.Token, TokenKey(key))
}
