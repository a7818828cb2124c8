package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{Invalid("bad input"), http.StatusBadRequest},
		{NotFound("user x not found"), http.StatusNotFound},
		{Conflict("email taken"), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("gone")), http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Fatalf("StatusOf(%v): got=%d want=%d", tc.err, got, tc.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := NotFound("user %s not found", "u1")
	if err.Error() != "user u1 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
