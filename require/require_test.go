package require

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

type recorder struct {
	errors []string
	failed bool
}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.failed = true
}

func TestPassingChecks(t *testing.T) {
	r := &recorder{}
	Nil(r, nil)
	NoError(r, nil)
	Error(r, fs.ErrNotExist)
	ErrorIs(r, fmt.Errorf("open: %w", fs.ErrNotExist), fs.ErrNotExist)
	Equal(r, []string{"a"}, []string{"a"})
	NotEqual(r, 1, 2)
	Len(r, map[string]int{"a": 1}, 1)
	True(r, true)
	False(r, false)
	if r.failed || len(r.errors) > 0 {
		t.Fatalf("unexpected failure: %v", r.errors)
	}
}

func TestFailingChecks(t *testing.T) {
	checks := map[string]func(r *recorder){
		"Nil":      func(r *recorder) { Nil(r, 1) },
		"NoError":  func(r *recorder) { NoError(r, fs.ErrNotExist) },
		"Error":    func(r *recorder) { Error(r, nil) },
		"ErrorIs":  func(r *recorder) { ErrorIs(r, errors.New("other"), fs.ErrNotExist) },
		"Equal":    func(r *recorder) { Equal(r, 1, 2) },
		"NotEqual": func(r *recorder) { NotEqual(r, "a", "a") },
		"Len":      func(r *recorder) { Len(r, []int{1, 2}, 1) },
		"True":     func(r *recorder) { True(r, false) },
		"False":    func(r *recorder) { False(r, true) },
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			r := &recorder{}
			check(r)
			if !r.failed {
				t.Fatalf("%s didn't stop the test", name)
			}
			if len(r.errors) == 0 {
				t.Fatalf("%s didn't report an error", name)
			}
		})
	}
}
