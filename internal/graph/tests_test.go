package graph

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

func TestCreateCompleteTestRequiresQuestionFields(t *testing.T) {
	t.Parallel()

	yes := true
	cases := []struct {
		name  string
		input domain.TestQuestionInput
		want  string
	}{
		{
			name:  "missing answer",
			input: domain.TestQuestionInput{Question: "2+2?", StudentAnswer: "4", IsCorrect: &yes},
			want:  "answer",
		},
		{
			name:  "missing student answer",
			input: domain.TestQuestionInput{Question: "2+2?", Answer: "4", IsCorrect: &yes},
			want:  "student_answer",
		},
		{
			name:  "missing is_correct",
			input: domain.TestQuestionInput{Question: "2+2?", Answer: "4", StudentAnswer: "4"},
			want:  "is_correct",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := &Store{}
			_, err := s.CreateCompleteTest(context.Background(), domain.CompleteTestInput{
				Title:     "Quiz",
				UserID:    "u1",
				Questions: []domain.TestQuestionInput{tc.input},
			})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := apierr.StatusOf(err); got != http.StatusBadRequest {
				t.Fatalf("status: got=%d want=%d", got, http.StatusBadRequest)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not name field %q", err, tc.want)
			}
		})
	}
}

func TestCreateCompleteTestRejectsBadDifficulty(t *testing.T) {
	t.Parallel()

	yes := true
	s := &Store{}
	_, err := s.CreateCompleteTest(context.Background(), domain.CompleteTestInput{
		Title:  "Quiz",
		UserID: "u1",
		Questions: []domain.TestQuestionInput{
			{Question: "2+2?", Answer: "4", StudentAnswer: "4", IsCorrect: &yes, Difficulty: "extreme"},
		},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := apierr.StatusOf(err); got != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", got, http.StatusBadRequest)
	}
}
