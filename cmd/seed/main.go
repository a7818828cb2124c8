// seed imports curriculum, user and answer files into the graph, and can
// generate mock users and randomized answers for manual testing. Re-running
// a curriculum import is idempotent; bulk imports report per-record errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/platform/envutil"
	"github.com/hoclieu/edugraph-api/internal/platform/logger"
	"github.com/hoclieu/edugraph-api/internal/platform/neo4jdb"
)

type curriculumFile struct {
	Subjects []struct {
		Name      string `json:"name"`
		TypeBooks []struct {
			Name     string `json:"name"`
			Grade    string `json:"grade"`
			Chapters []struct {
				Name    string `json:"name"`
				Order   int    `json:"order"`
				Lessons []struct {
					Name      string                  `json:"name"`
					Order     int                     `json:"order"`
					Questions []domain.QuestionRecord `json:"questions"`
				} `json:"lessons"`
			} `json:"chapters"`
		} `json:"typebooks"`
	} `json:"subjects"`
}

func main() {
	var (
		curriculumPath = flag.String("file", "", "curriculum JSON file")
		usersPath      = flag.String("users", "", "users JSON file")
		answersPath    = flag.String("answers", "", "answers JSON file")
		genUsers       = flag.Int("gen-users", 0, "generate n mock users")
		genAnswers     = flag.Int("gen-answers", 0, "generate up to n random answers per user")
		wipe           = flag.Bool("wipe", false, "wipe the database before importing")
	)
	flag.Parse()

	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("Neo4j init failed", "error", err)
	}
	ctx := context.Background()
	defer db.Close(ctx)
	db.InitSchema(ctx)

	store := graph.NewStore(db, log)

	if *wipe {
		log.Warn("Wiping database")
		if err := store.WipeDatabase(ctx); err != nil {
			log.Fatal("Wipe failed", "error", err)
		}
	}

	if *curriculumPath != "" {
		if err := importCurriculum(ctx, store, log, *curriculumPath); err != nil {
			log.Fatal("Curriculum import failed", "error", err)
		}
	}
	if *usersPath != "" {
		if err := importUsers(ctx, store, log, *usersPath); err != nil {
			log.Fatal("User import failed", "error", err)
		}
	}
	if *answersPath != "" {
		if err := importAnswers(ctx, store, log, *answersPath); err != nil {
			log.Fatal("Answer import failed", "error", err)
		}
	}
	if *genUsers > 0 {
		outcome, err := store.BulkCreateUsers(ctx, mockUsers(*genUsers), bulk.DefaultUserBatchSize)
		if err != nil {
			log.Fatal("User generation failed", "error", err)
		}
		logOutcome(log, "generated users", outcome)
	}
	if *genAnswers > 0 {
		if err := generateAnswers(ctx, store, log, *genAnswers); err != nil {
			log.Fatal("Answer generation failed", "error", err)
		}
	}
}

// mockUsers builds n throwaway students with predictable emails so repeated
// runs collide on the email constraint instead of piling up duplicates.
func mockUsers(n int) []domain.UserRecord {
	users := make([]domain.UserRecord, n)
	for i := range users {
		age := 20 + (i+1)%50
		users[i] = domain.UserRecord{
			Name:  fmt.Sprintf("Student %d", i+1),
			Email: fmt.Sprintf("user%d@example.com", i+1),
			Age:   &age,
		}
	}
	return users
}

// generateAnswers records up to perUser random answers for every user,
// roughly 70% of them correct.
func generateAnswers(ctx context.Context, store *graph.Store, log *logger.Logger, perUser int) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	questions, err := store.ListQuestions(ctx, "", "")
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(users) == 0 || len(questions) == 0 {
		log.Warn("Nothing to answer", "users", len(users), "questions", len(questions))
		return nil
	}

	answers := make([]domain.AnswerRecord, 0, len(users)*perUser)
	for _, u := range users {
		userID, _ := u["id"].(string)
		for _, qi := range rand.Perm(len(questions))[:min(perUser, len(questions))] {
			q := questions[qi]
			questionID, _ := q["id"].(string)
			correctAnswer, _ := q["correct_answer"].(string)
			correct := rand.Intn(10) < 7
			student := correctAnswer
			if !correct {
				student = "wrong answer"
			}
			answers = append(answers, domain.AnswerRecord{
				UserID:          userID,
				QuestionID:      questionID,
				StudentAnswer:   student,
				IsCorrect:       &correct,
				DurationSeconds: 10 + rand.Intn(110),
			})
		}
	}
	outcome, err := store.BulkCreateAnswers(ctx, answers, bulk.DefaultAnswerBatchSize)
	if err != nil {
		return err
	}
	logOutcome(log, "generated answers", outcome)
	return nil
}

func importCurriculum(ctx context.Context, store *graph.Store, log *logger.Logger, path string) error {
	var file curriculumFile
	if err := readJSON(path, &file); err != nil {
		return err
	}

	totalLessons := 0
	totalQuestions := 0
	for _, subject := range file.Subjects {
		subjectID, err := store.EnsureSubject(ctx, subject.Name)
		if err != nil {
			return fmt.Errorf("subject %q: %w", subject.Name, err)
		}
		for _, tb := range subject.TypeBooks {
			typebookID, err := store.EnsureTypeBook(ctx, subjectID, tb.Name, tb.Grade)
			if err != nil {
				return fmt.Errorf("typebook %q: %w", tb.Name, err)
			}
			for _, ch := range tb.Chapters {
				chapterID, err := store.EnsureChapter(ctx, typebookID, ch.Name, ch.Order)
				if err != nil {
					return fmt.Errorf("chapter %q: %w", ch.Name, err)
				}
				for _, lesson := range ch.Lessons {
					lessonID, err := store.EnsureLesson(ctx, chapterID, lesson.Name, lesson.Order)
					if err != nil {
						return fmt.Errorf("lesson %q: %w", lesson.Name, err)
					}
					totalLessons++

					if len(lesson.Questions) == 0 {
						continue
					}
					questions := make([]domain.QuestionRecord, len(lesson.Questions))
					for i, q := range lesson.Questions {
						q.LessonID = lessonID
						questions[i] = q
					}
					outcome, err := store.BulkCreateQuestions(ctx, questions, bulk.DefaultQuestionBatchSize)
					if err != nil {
						return fmt.Errorf("questions for lesson %q: %w", lesson.Name, err)
					}
					totalQuestions += outcome.TotalCreated()
					logOutcome(log, "questions", outcome)
				}
			}
		}
	}
	log.Info("Curriculum imported", "subjects", len(file.Subjects), "lessons", totalLessons, "questions", totalQuestions)
	return nil
}

func importUsers(ctx context.Context, store *graph.Store, log *logger.Logger, path string) error {
	var file struct {
		Users []domain.UserRecord `json:"users"`
	}
	if err := readJSON(path, &file); err != nil {
		return err
	}
	outcome, err := store.BulkCreateUsers(ctx, file.Users, bulk.DefaultUserBatchSize)
	if err != nil {
		return err
	}
	logOutcome(log, "users", outcome)
	return nil
}

func importAnswers(ctx context.Context, store *graph.Store, log *logger.Logger, path string) error {
	var file struct {
		Answers []domain.AnswerRecord `json:"answers"`
	}
	if err := readJSON(path, &file); err != nil {
		return err
	}
	outcome, err := store.BulkCreateAnswers(ctx, file.Answers, bulk.DefaultAnswerBatchSize)
	if err != nil {
		return err
	}
	logOutcome(log, "answers", outcome)
	return nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func logOutcome(log *logger.Logger, entity string, outcome *bulk.Outcome) {
	log.Info("Bulk import finished",
		"entity", entity,
		"processed", outcome.TotalProcessed,
		"created", outcome.TotalCreated(),
		"errors", outcome.TotalErrors(),
	)
	for _, msg := range outcome.ErrorList() {
		log.Warn("Import error", "entity", entity, "detail", msg)
	}
}
