package graph

import "testing"

func TestAggregateStudentRows(t *testing.T) {
	t.Parallel()

	rows := []studentRow{
		{user: Props{"id": "u1", "name": "An"}, subject: "Toán", difficulty: "easy", answered: true, isCorrect: true, duration: 30},
		{user: Props{"id": "u1", "name": "An"}, subject: "Toán", difficulty: "hard", answered: true, isCorrect: false, duration: 90},
		{user: Props{"id": "u2", "name": "Bình"}, answered: false},
	}

	out := aggregateStudentRows(rows)
	if len(out) != 2 {
		t.Fatalf("students: got=%d want=2", len(out))
	}

	first := out[0]
	if first["id"] != "u1" {
		t.Fatalf("order not preserved: got=%v", first["id"])
	}
	if first["total_answers"] != 2 || first["correct_answers"] != 1 {
		t.Fatalf("counts: total=%v correct=%v", first["total_answers"], first["correct_answers"])
	}
	if first["accuracy_rate"] != 50.0 {
		t.Fatalf("accuracy_rate: got=%v want=50", first["accuracy_rate"])
	}
	if first["avg_duration_seconds"] != 60.0 {
		t.Fatalf("avg_duration_seconds: got=%v want=60", first["avg_duration_seconds"])
	}

	bySubject := first["by_subject"].(Props)
	math := bySubject["Toán"].(Props)
	if math["total"] != 2 || math["correct"] != 1 {
		t.Fatalf("by_subject: %+v", math)
	}
	byDifficulty := first["difficulty_performance"].(Props)
	if byDifficulty["easy"].(Props)["accuracy"] != 100.0 {
		t.Fatalf("easy accuracy: %+v", byDifficulty["easy"])
	}

	second := out[1]
	if second["total_answers"] != 0 || second["accuracy_rate"] != 0.0 {
		t.Fatalf("student without answers: %+v", second)
	}
}

func TestScoreBucket(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{100, "Excellent (90-100%)"},
		{90, "Excellent (90-100%)"},
		{89.9, "Good (80-89%)"},
		{75, "Average (70-79%)"},
		{60, "Below Average (60-69%)"},
		{59.9, "Poor (<60%)"},
		{0, "Poor (<60%)"},
	}
	for _, tc := range cases {
		if got := scoreBucket(tc.score); got != tc.want {
			t.Fatalf("scoreBucket(%v): got=%q want=%q", tc.score, got, tc.want)
		}
	}
}
