package domain

import "testing"

func TestClampProgress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{150, 100},
	}
	for _, tc := range cases {
		if got := ClampProgress(tc.in); got != tc.want {
			t.Fatalf("ClampProgress(%d): got=%d want=%d", tc.in, got, tc.want)
		}
	}
}

func TestClampProgressIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []int{-5, 0, 42, 100, 9000} {
		once := ClampProgress(in)
		if twice := ClampProgress(once); twice != once {
			t.Fatalf("ClampProgress not idempotent for %d: %d then %d", in, once, twice)
		}
	}
}

func TestAccuracy(t *testing.T) {
	t.Parallel()

	if got := Accuracy(1, 2); got != 50.0 {
		t.Fatalf("Accuracy(1, 2): got=%v want=50", got)
	}
	if got := Accuracy(0, 0); got != 0.0 {
		t.Fatalf("Accuracy(0, 0): got=%v want=0", got)
	}
	if got := Accuracy(3, 3); got != 100.0 {
		t.Fatalf("Accuracy(3, 3): got=%v want=100", got)
	}
}

func TestRounding(t *testing.T) {
	t.Parallel()

	if got := Round2(66.666666); got != 66.67 {
		t.Fatalf("Round2: got=%v want=66.67", got)
	}
	if got := Round1(66.666666); got != 66.7 {
		t.Fatalf("Round1: got=%v want=66.7", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("NormalizeEmail: got=%q", got)
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	if !ValidEmail("a@b.com") {
		t.Fatal("expected a@b.com to be valid")
	}
	if ValidEmail("not-an-email") {
		t.Fatal("expected not-an-email to be invalid")
	}
}

func TestValidDifficulty(t *testing.T) {
	t.Parallel()

	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !ValidDifficulty(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}
	for _, d := range []string{"", "extreme", "EASY"} {
		if ValidDifficulty(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{StatusLearning, StatusCompleted, StatusMastered, StatusReviewing} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if ValidStatus("paused") {
		t.Fatal("expected paused to be invalid")
	}
}
