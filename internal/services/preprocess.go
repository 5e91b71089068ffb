package services

import (
	"context"
	"strings"

	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

// PreprocessService builds the user_data table: it joins interactions with
// user preferences and course metadata, assigns a learning style from the
// stated preference, computes engagement scores and upserts one feature row
// per user. Run offline before training.
type PreprocessService interface {
	// Run returns how many user feature rows were upserted.
	Run(ctx context.Context) (int, error)
}

type preprocessService struct {
	log          *logger.Logger
	users        repos.UserRepo
	courses      repos.CourseRepo
	interactions repos.InteractionRepo
	features     repos.UserFeatureRepo
}

func NewPreprocessService(
	baseLog *logger.Logger,
	users repos.UserRepo,
	courses repos.CourseRepo,
	interactions repos.InteractionRepo,
	features repos.UserFeatureRepo,
) PreprocessService {
	return &preprocessService{
		log:          baseLog.With("service", "PreprocessService"),
		users:        users,
		courses:      courses,
		interactions: interactions,
		features:     features,
	}
}

// Missing-value defaults for the joined rows.
const (
	defaultRating     = 1.0
	defaultDifficulty = 1.0
)

func (ps *preprocessService) Run(ctx context.Context) (int, error) {
	users, err := ps.users.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	interactions, err := ps.interactions.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	ps.log.Info("Loaded preprocessing inputs", "users", len(users), "interactions", len(interactions))

	userByID := make(map[int64]types.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	courseIDs := make([]int64, 0, len(interactions))
	seenCourse := make(map[int64]bool)
	for _, row := range interactions {
		if !seenCourse[row.CourseID] {
			seenCourse[row.CourseID] = true
			courseIDs = append(courseIDs, row.CourseID)
		}
	}
	courses, err := ps.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return 0, err
	}
	courseByID := make(map[int64]types.Course, len(courses))
	for _, course := range courses {
		courseByID[course.CourseID] = course
	}

	byUser := make(map[int64][]types.Interaction)
	order := make([]int64, 0)
	for _, row := range interactions {
		if _, ok := byUser[row.UserID]; !ok {
			order = append(order, row.UserID)
		}
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}

	upserted := 0
	for _, userID := range order {
		rows := byUser[userID]

		preference := "Unknown"
		if user, ok := userByID[userID]; ok && strings.TrimSpace(user.Preference) != "" {
			preference = user.Preference
		}

		var progress, rating, difficulty, timeSpent, engagement float64
		for _, row := range rows {
			rowRating := row.Rating
			if rowRating == 0 {
				rowRating = defaultRating
			}
			rowDifficulty := defaultDifficulty
			if course, ok := courseByID[row.CourseID]; ok {
				rowDifficulty = float64(course.Difficulty)
			}
			progress += row.Progress
			rating += rowRating
			difficulty += rowDifficulty
			timeSpent += row.TimeSpent
			engagement += (row.Progress/100)*rowRating + row.TimeSpent/60
		}
		n := float64(len(rows))

		feature := &types.UserFeature{
			UserID:          userID,
			Progress:        progress / n,
			Rating:          rating / n,
			Difficulty:      difficulty / n,
			TimeSpent:       timeSpent / n,
			EngagementScore: engagement / n,
			LearningStyle:   AssignLearningStyle(preference),
		}
		if err := ps.features.Upsert(ctx, feature); err != nil {
			return upserted, err
		}
		upserted++
	}

	ps.log.Info("User feature rows updated", "rows", upserted)
	return upserted, nil
}

// AssignLearningStyle maps a stated preference string to a style label.
func AssignLearningStyle(preference string) string {
	lower := strings.ToLower(preference)
	switch {
	case strings.Contains(lower, "visual"):
		return types.StyleVisual
	case strings.Contains(lower, "auditory"):
		return types.StyleAuditory
	case strings.Contains(lower, "kinesthetic"):
		return types.StyleKinesthetic
	}
	return types.StyleMixed
}
