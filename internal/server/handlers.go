package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// getProgress returns the caller's record, creating it with defaults
// unless ?create=false is passed.
func (s *Server) getProgress(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	p, err := s.store.GetUserProgress(ctx, userID)
	if errors.Is(err, progress.ErrNotFound) && c.DefaultQuery("create", "true") != "false" {
		p, err = s.store.UpsertUserProgress(ctx, userID, progress.Patch{})
	}
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// putProgress applies a partial update. Streak and level are stored as
// sent; the client-side aggregator computes them.
func (s *Server) putProgress(c *gin.Context) {
	var patch progress.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.respondStoreError(c, err)
		return
	}

	p, err := s.store.UpsertUserProgress(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) resetProgress(c *gin.Context) {
	r, ok := s.store.(progress.Resetter)
	if !ok {
		respondError(c, http.StatusNotImplemented, "not_supported", errors.New("store does not support reset"))
		return
	}
	if err := r.ResetUser(c.Request.Context(), currentUser(c)); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listLessonProgress(c *gin.Context) {
	list, err := s.store.ListLessonProgress(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if list == nil {
		list = []progress.LessonProgress{}
	}
	c.JSON(http.StatusOK, list)
}

type lessonProgressRequest struct {
	LessonID    string     `json:"lessonId"`
	Completed   *bool      `json:"completed"`
	Accuracy    int        `json:"accuracy"`
	XPEarned    int        `json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt"`
}

// postLessonProgress upserts one lesson record. completed defaults to true;
// completedAt defaults to now for completed lessons.
func (s *Server) postLessonProgress(c *gin.Context) {
	var req lessonProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	switch {
	case req.LessonID == "":
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("lessonId is required"))
		return
	case req.Accuracy < 0 || req.Accuracy > 100:
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("accuracy must be in [0, 100]"))
		return
	case req.XPEarned < 0:
		respondError(c, http.StatusBadRequest, "invalid_request", errors.New("xpEarned must be >= 0"))
		return
	}
	if s.catalog != nil {
		if _, err := s.catalog.Lesson(req.LessonID); err != nil {
			s.respondStoreError(c, err)
			return
		}
	}

	rec := progress.LessonRecord{
		Completed: req.Completed == nil || *req.Completed,
		Accuracy:  req.Accuracy,
		XPEarned:  req.XPEarned,
	}
	if rec.Completed {
		at := s.now().UTC()
		if req.CompletedAt != nil {
			at = req.CompletedAt.UTC()
		}
		rec.CompletedAt = &at
	}

	lp, err := s.store.UpsertLessonProgress(c.Request.Context(), currentUser(c), req.LessonID, rec)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, lp)
}

func (s *Server) listCourses(c *gin.Context) {
	type courseSummary struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Lessons     int    `json:"lessons"`
		Questions   int    `json:"questions"`
	}
	var out []courseSummary
	for _, course := range s.catalog.Courses() {
		out = append(out, courseSummary{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Lessons:     len(course.Lessons),
			Questions:   course.QuestionCount(),
		})
	}
	c.JSON(http.StatusOK, out)
}

type pathStepResponse struct {
	LessonID string `json:"lessonId"`
	Title    string `json:"title"`
	Status   string `json:"status"`
}

// coursePath returns the caller's learning path through one course.
func (s *Server) coursePath(c *gin.Context) {
	course, err := s.catalog.Course(c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	list, err := s.store.ListLessonProgress(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	steps := catalog.Path(course, progress.CompletedSet(list))
	out := make([]pathStepResponse, len(steps))
	for i, st := range steps {
		out[i] = pathStepResponse{LessonID: st.Lesson.ID, Title: st.Lesson.Title, Status: st.Status.String()}
	}
	c.JSON(http.StatusOK, gin.H{
		"courseId":  course.ID,
		"completed": catalog.CompletedCount(steps),
		"total":     len(steps),
		"steps":     out,
	})
}

func (s *Server) getLesson(c *gin.Context) {
	lesson, err := s.catalog.Lesson(c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, lesson)
}
