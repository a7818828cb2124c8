package main

import (
	"fmt"
	"testing"
)

func TestMockUsersShape(t *testing.T) {
	t.Parallel()

	users := mockUsers(3)
	if len(users) != 3 {
		t.Fatalf("count: got=%d want=3", len(users))
	}
	for i, u := range users {
		wantEmail := fmt.Sprintf("user%d@example.com", i+1)
		if u.Email != wantEmail {
			t.Fatalf("email[%d]: got=%q want=%q", i, u.Email, wantEmail)
		}
		if u.Name == "" {
			t.Fatalf("user %d has no name", i)
		}
		if u.Age == nil || *u.Age < 20 || *u.Age > 69 {
			t.Fatalf("age[%d] out of range: %v", i, u.Age)
		}
	}
}

func TestMockUsersEmailsAreStable(t *testing.T) {
	t.Parallel()

	a := mockUsers(5)
	b := mockUsers(5)
	for i := range a {
		if a[i].Email != b[i].Email {
			t.Fatalf("emails differ between runs: %q vs %q", a[i].Email, b[i].Email)
		}
	}
}
