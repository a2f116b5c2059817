package services

import (
	"context"
	"sort"
	"time"

	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/db/repositories"
	"infinite-experiment/coursehub/internal/logging"
	"infinite-experiment/coursehub/internal/metrics"
	"infinite-experiment/coursehub/internal/models/dtos"
	gormModels "infinite-experiment/coursehub/internal/models/gorm"
	"infinite-experiment/coursehub/internal/models/tenant"

	"golang.org/x/sync/errgroup"
)

const (
	leaderboardCacheKey     = string(constants.CachePrefixLeaderboard) + "global"
	leaderboardCachePattern = string(constants.CachePrefixLeaderboard) + "*"

	highPriorityDays   = 3
	mediumPriorityDays = 7

	leaderboardBuildTimeout = 30 * time.Second
)

// AggregatorService builds the cross-course views. A course whose database
// cannot be reached is skipped and logged; the view is built from the rest.
type AggregatorService struct {
	users       *repositories.UserRepository
	memberships *repositories.MembershipRepository
	content     *repositories.CourseContentRepo
	cache       common.CacheInterface
	metrics     *metrics.MetricsRegistry
	concurrency int
	ttl         time.Duration
	now         func() time.Time
}

func NewAggregatorService(
	users *repositories.UserRepository,
	memberships *repositories.MembershipRepository,
	content *repositories.CourseContentRepo,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
	concurrency int,
	ttl time.Duration,
) *AggregatorService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AggregatorService{
		users:       users,
		memberships: memberships,
		content:     content,
		cache:       cache,
		metrics:     metricsReg,
		concurrency: concurrency,
		ttl:         ttl,
		now:         time.Now,
	}
}

type courseAssignments struct {
	posts    []tenant.Post
	statuses []tenant.AssignmentStatus
	ok       bool
}

// DashboardStats summarises the user's enrolled courses. Rank and points
// come from the global leaderboard and are zero when the user is not on it.
func (s *AggregatorService) DashboardStats(ctx context.Context, userID string) (*dtos.DashboardStats, error) {
	defer s.observe("dashboard_stats", time.Now())

	memberships, err := s.memberships.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	perCourse := s.loadAssignments(ctx, "dashboard_stats", userID, memberships)

	stats := &dtos.DashboardStats{TotalCourses: len(memberships)}
	for _, ca := range perCourse {
		if !ca.ok {
			continue
		}
		stats.TotalAssignments += len(ca.posts)
		stats.CompletedAssignments += countCompleted(ca.posts, ca.statuses)
	}
	stats.PendingAssignments = stats.TotalAssignments - stats.CompletedAssignments

	board, err := s.GlobalLeaderboard(ctx)
	if err != nil {
		logging.Warn("Leaderboard unavailable for dashboard", "user_id", userID, "error", err.Error())
		return stats, nil
	}
	for _, entry := range board {
		if entry.ID == userID {
			stats.Rank = entry.Rank
			stats.Points = entry.Points
			break
		}
	}
	return stats, nil
}

// AllAssignments lists the user's assignments across enrolled courses in
// enrolment order, oldest assignment first within a course.
func (s *AggregatorService) AllAssignments(ctx context.Context, userID string) ([]dtos.AssignmentView, error) {
	defer s.observe("all_assignments", time.Now())

	memberships, err := s.memberships.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	perCourse := s.loadAssignments(ctx, "all_assignments", userID, memberships)
	now := s.now()

	views := []dtos.AssignmentView{}
	for i, m := range memberships {
		ca := perCourse[i]
		if !ca.ok {
			continue
		}
		completed := completedSet(ca.statuses)
		for _, p := range ca.posts {
			views = append(views, dtos.AssignmentView{
				ID:             p.ID,
				Title:          p.Title,
				Course:         m.Course.Name,
				CourseID:       m.CourseID,
				DueDate:        dueDate(p.Deadline),
				Description:    p.Content,
				IsCompleted:    completed[p.ID],
				Priority:       priorityFor(p.Deadline, now),
				SubmissionType: constants.AssignmentSubmissionType,
			})
		}
	}
	return views, nil
}

// loadAssignments fetches every course's active assignments and the user's
// statuses concurrently. The result is indexed like memberships.
func (s *AggregatorService) loadAssignments(ctx context.Context, view, userID string, memberships []gormModels.CourseMembership) []courseAssignments {
	out := make([]courseAssignments, len(memberships))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, m := range memberships {
		i, courseID := i, m.CourseID
		g.Go(func() error {
			posts, err := s.content.GetPostsByKind(ctx, courseID, constants.PostKindAssignment)
			if err != nil {
				s.skip(view, courseID, err)
				return nil
			}
			statuses, err := s.content.GetUserAssignmentStatuses(ctx, courseID, userID)
			if err != nil {
				s.skip(view, courseID, err)
				return nil
			}
			out[i] = courseAssignments{posts: posts, statuses: statuses, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GlobalLeaderboard ranks every user by points summed over their active
// memberships. The result is cached for the configured TTL and shared by
// every caller, so it is built detached from the requesting client.
func (s *AggregatorService) GlobalLeaderboard(ctx context.Context) ([]dtos.LeaderboardEntry, error) {
	loaded := false
	board, err := common.GetOrSetTyped(s.cache, leaderboardCacheKey, s.ttl, func() ([]dtos.LeaderboardEntry, error) {
		loaded = true
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaderboardBuildTimeout)
		defer cancel()
		return s.buildLeaderboard(buildCtx)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		if loaded {
			s.metrics.CacheMissesTotal.WithLabelValues(leaderboardCachePattern).Inc()
		} else {
			s.metrics.CacheHitsTotal.WithLabelValues(leaderboardCachePattern).Inc()
		}
	}
	return board, nil
}

// RefreshLeaderboard rebuilds the leaderboard and replaces the cached copy.
func (s *AggregatorService) RefreshLeaderboard(ctx context.Context) error {
	board, err := s.buildLeaderboard(ctx)
	if err != nil {
		return err
	}
	s.cache.Set(leaderboardCacheKey, board, s.ttl)
	return nil
}

func (s *AggregatorService) InvalidateLeaderboard() {
	s.cache.DeletePrefix(string(constants.CachePrefixLeaderboard))
}

// buildLeaderboard reads each course's stats once and folds them per user.
// It fails when ctx ends during the fan-out so a partial board is never cached.
func (s *AggregatorService) buildLeaderboard(ctx context.Context) ([]dtos.LeaderboardEntry, error) {
	defer s.observe("global_leaderboard", time.Now())

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	byUser, err := s.memberships.GetActiveByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	courseIDs := distinctCourses(ids, byUser)
	perCourse := make([]map[string]tenant.UserStats, len(courseIDs))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, courseID := range courseIDs {
		i, courseID := i, courseID
		g.Go(func() error {
			rows, err := s.content.ListUserStats(ctx, courseID)
			if err != nil {
				s.skip("global_leaderboard", courseID, err)
				return nil
			}
			m := make(map[string]tenant.UserStats, len(rows))
			for _, r := range rows {
				m[r.UserID] = r
			}
			perCourse[i] = m
			return nil
		})
	}
	_ = g.Wait()

	// a dead context fails every course; that is not a partial view
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	statsByCourse := make(map[string]map[string]tenant.UserStats, len(courseIDs))
	for i, courseID := range courseIDs {
		if perCourse[i] != nil {
			statsByCourse[courseID] = perCourse[i]
		}
	}

	entries := make([]dtos.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry := dtos.LeaderboardEntry{ID: u.ID, Username: u.Username}
		for _, m := range byUser[u.ID] {
			st, ok := statsByCourse[m.CourseID][u.ID]
			if !ok {
				continue
			}
			entry.Points += st.Points
			entry.Contributions += st.Contributions()
		}
		entry.Badges = entry.Points / constants.BadgePointsThreshold
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *AggregatorService) skip(view, courseID string, err error) {
	logging.Warn("Skipping course during aggregation",
		"view", view,
		"course_id", courseID,
		"error", err.Error(),
	)
	if s.metrics != nil {
		s.metrics.AggregationSkippedTotal.WithLabelValues(view).Inc()
	}
}

func (s *AggregatorService) observe(view string, start time.Time) {
	if s.metrics != nil {
		s.metrics.AggregationDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}

// distinctCourses keeps first-seen order so fan-out is deterministic.
func distinctCourses(userIDs []string, byUser map[string][]gormModels.CourseMembership) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range userIDs {
		for _, m := range byUser[id] {
			if !seen[m.CourseID] {
				seen[m.CourseID] = true
				out = append(out, m.CourseID)
			}
		}
	}
	return out
}

func completedSet(statuses []tenant.AssignmentStatus) map[string]bool {
	done := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		if st.IsCompleted {
			done[st.PostID] = true
		}
	}
	return done
}

// countCompleted only counts completions of assignments that are still
// active, so pending can never go negative.
func countCompleted(posts []tenant.Post, statuses []tenant.AssignmentStatus) int {
	done := completedSet(statuses)
	n := 0
	for _, p := range posts {
		if done[p.ID] {
			n++
		}
	}
	return n
}

func priorityFor(deadline *time.Time, now time.Time) constants.Priority {
	if deadline == nil {
		return constants.PriorityMedium
	}
	days := deadline.Sub(now).Hours() / 24
	switch {
	case days <= highPriorityDays:
		return constants.PriorityHigh
	case days <= mediumPriorityDays:
		return constants.PriorityMedium
	default:
		return constants.PriorityLow
	}
}

func dueDate(deadline *time.Time) string {
	if deadline == nil {
		return constants.NoDeadlineLabel
	}
	return deadline.UTC().Format("2006-01-02")
}
